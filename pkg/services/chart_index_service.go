package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/storage"
)

// 保存済み食事表のベクトルコレクション
const (
	ChartCollection = "workoutvibes_diet_charts"
	ChartVectorSize = uint64(768) // text-embedding-004の次元数
)

// Embedder はテキストをベクトル化します。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChartMatch は類似検索で見つかった食事表です。
type ChartMatch struct {
	ChartID        int64   `json:"chart_id"`
	ChartName      string  `json:"chart_name"`
	Goal           string  `json:"goal"`
	TargetCalories int64   `json:"target_calories"`
	Score          float32 `json:"score"`
}

// ChartIndexService は保存済み食事表をQdrantに登録し、ユーザーごとに類似検索します。
type ChartIndexService struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	embedder    Embedder
	collection  string
	conn        io.Closer
}

// DialQdrant はQdrantへのgRPC接続を作ります。APIキーがあればTLSとAPIキー認証、なければ非TLSで接続します。
func DialQdrant(qdrantURL, qdrantAPIKey string) (*grpc.ClientConn, error) {
	var dialOpts []grpc.DialOption

	if qdrantAPIKey != "" {
		log.Println("Qdrant Cloud (TLS) への接続を準備します...")
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))

		// APIキー認証インターセプタを追加
		authInterceptor := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			ctx = metadata.AppendToOutgoingContext(ctx, "api-key", qdrantAPIKey)
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		dialOpts = append(dialOpts, grpc.WithUnaryInterceptor(authInterceptor))
	} else {
		log.Println("ローカルのQdrant (非TLS) への接続を準備します...")
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(qdrantURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("QdrantへのgRPCクライアント作成に失敗しました: %w", err)
	}
	return conn, nil
}

// NewChartIndexService はQdrantに接続し、コレクションを用意したChartIndexServiceを返します。
func NewChartIndexService(ctx context.Context, embedder Embedder, qdrantURL, qdrantAPIKey string) (*ChartIndexService, error) {
	conn, err := DialQdrant(qdrantURL, qdrantAPIKey)
	if err != nil {
		return nil, err
	}
	s := newChartIndexService(qdrant.NewPointsClient(conn), qdrant.NewCollectionsClient(conn), embedder)
	if err := s.ensureCollection(ctx, 5, 2*time.Second); err != nil {
		conn.Close()
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// Close はQdrantへの接続を閉じます。
func (s *ChartIndexService) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func newChartIndexService(points qdrant.PointsClient, collections qdrant.CollectionsClient, embedder Embedder) *ChartIndexService {
	return &ChartIndexService{
		points:      points,
		collections: collections,
		embedder:    embedder,
		collection:  ChartCollection,
	}
}

// ensureCollection はQdrantサーバーの準備を待ってから、コレクションがなければ作成します。
func (s *ChartIndexService) ensureCollection(ctx context.Context, maxRetries int, retryInterval time.Duration) error {
	var res *qdrant.ListCollectionsResponse
	var listErr error

	log.Println("Qdrantサーバーの準備を確認中...")
	for i := 0; i < maxRetries; i++ {
		listCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		res, listErr = s.collections.List(listCtx, &qdrant.ListCollectionsRequest{})
		cancel()
		if listErr == nil {
			break
		}
		log.Printf("Qdrantサーバーの準備確認に失敗しました (試行 %d/%d)。%v後に再試行します...", i+1, maxRetries, retryInterval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	if listErr != nil {
		return fmt.Errorf("Qdrantのコレクションリスト取得に失敗（リトライ上限到達）: %w", listErr)
	}

	for _, collection := range res.GetCollections() {
		if collection.GetName() == s.collection {
			log.Printf("コレクション '%s' は既に存在します。", s.collection)
			return nil
		}
	}

	log.Printf("コレクション '%s' が存在しないため、新規作成します。", s.collection)
	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.collections.Create(createCtx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     ChartVectorSize,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("Qdrantのコレクション作成に失敗しました: %w", err)
	}
	log.Printf("🟢 コレクション '%s' を作成しました。", s.collection)
	return nil
}

// IndexChart は食事表の名前・目標・食品をベクトル化して登録します。点のIDは食事表のIDです。
func (s *ChartIndexService) IndexChart(ctx context.Context, chart storage.Chart) error {
	text := ChartText(chart)
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("食事表のベクトル化に失敗: %w", err)
	}

	payload := map[string]*qdrant.Value{
		"user_email":      {Kind: &qdrant.Value_StringValue{StringValue: chart.UserEmail}},
		"chart_id":        {Kind: &qdrant.Value_IntegerValue{IntegerValue: chart.ID}},
		"chart_name":      {Kind: &qdrant.Value_StringValue{StringValue: chart.Name}},
		"goal":            {Kind: &qdrant.Value_StringValue{StringValue: chart.Goal}},
		"target_calories": {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(chart.TargetCalories)}},
		"text":            {Kind: &qdrant.Value_StringValue{StringValue: text}},
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{{
			Id:      chartPointID(chart.ID),
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vector}}},
			Payload: payload,
		}},
	})
	if err != nil {
		return fmt.Errorf("Qdrantへの食事表の保存に失敗: %w", err)
	}
	log.Printf("🟢 食事表 %d をQdrantに登録しました。", chart.ID)
	return nil
}

// RemoveCharts は食事表の点を削除します。
func (s *ChartIndexService) RemoveCharts(ctx context.Context, chartIDs ...int64) error {
	if len(chartIDs) == 0 {
		return nil
	}
	ids := make([]*qdrant.PointId, 0, len(chartIDs))
	for _, id := range chartIDs {
		ids = append(ids, chartPointID(id))
	}
	wait := true
	_, err := s.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{Points: &qdrant.PointsIdsList{Ids: ids}},
		},
	})
	if err != nil {
		return fmt.Errorf("Qdrantからの食事表の削除に失敗: %w", err)
	}
	return nil
}

// Search はユーザーの食事表からクエリに近いものを探します。
func (s *ChartIndexService) Search(ctx context.Context, userEmail, query string, limit uint64) ([]ChartMatch, error) {
	if limit == 0 {
		limit = 5
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("クエリテキストのベクトル化に失敗: %w", err)
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key:   "user_email",
					Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: userEmail}},
				},
			},
		}},
	}

	res, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          limit,
		Filter:         filter,
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("Qdrantでの食事表検索に失敗: %w", err)
	}

	matches := make([]ChartMatch, 0, len(res.GetResult()))
	for _, point := range res.GetResult() {
		payload := point.GetPayload()
		matches = append(matches, ChartMatch{
			ChartID:        int64(point.GetId().GetNum()),
			ChartName:      payload["chart_name"].GetStringValue(),
			Goal:           payload["goal"].GetStringValue(),
			TargetCalories: payload["target_calories"].GetIntegerValue(),
			Score:          point.GetScore(),
		})
	}
	log.Printf("食事表検索: '%s' に類似した %d 件を取得", query, len(matches))
	return matches, nil
}

func chartPointID(id int64) *qdrant.PointId {
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Num{Num: uint64(id)}}
}

// ChartText はベクトル化に使う食事表の要約文です。
func ChartText(chart storage.Chart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chart: %s\nGoal: %s\nTarget calories: %d\n", chart.Name, chart.Goal, chart.TargetCalories)
	meals, _ := diet.ParseSavedChart(chart.ChartData)
	for _, m := range meals {
		fmt.Fprintf(&b, "%s: %s\n", m.Name, m.Foods)
	}
	return b.String()
}
