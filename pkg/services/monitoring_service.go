package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/diet"
)

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTimeNs"`
}

// StepStats は食事プランの段階ごとの実行統計です。
type StepStats struct {
	Step          diet.StepID `json:"step"`
	Title         string      `json:"title"`
	Runs          int         `json:"runs"`
	Degraded      int         `json:"degraded"`
	TextFallbacks int         `json:"textFallbacks"`
	InFlight      int         `json:"inFlight"`
	AvgElapsedMs  int64       `json:"avgElapsedMs"`
	totalElapsed  time.Duration
}

// MonitoringService はAPIリクエストと食事プラン段階のモニタリング機能を提供します。
type MonitoringService struct {
	logs    []LogEntry
	maxLogs int
	steps   map[diet.StepID]*StepStats
	mu      sync.RWMutex
}

// 既定で保持するリクエストログの件数
const defaultMaxLogs = 10000

// NewMonitoringService は新しいMonitoringServiceを生成します。maxLogs が0以下なら既定値を使います。
func NewMonitoringService(maxLogs int) *MonitoringService {
	if maxLogs <= 0 {
		maxLogs = defaultMaxLogs
	}
	return &MonitoringService{
		logs:    make([]LogEntry, 0),
		maxLogs: maxLogs,
		steps:   make(map[diet.StepID]*StepStats),
	}
}

// LogRequest はリクエストを記録します。上限を超えた分は古いものから捨てます。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - s.maxLogs; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。管理系とモニタリング系のパスは記録しません。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}
		// ルート定義があればパラメータを含まない形で集計します
		if full := c.FullPath(); full != "" {
			path = full
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// StepStarted は段階の開始を記録します。
func (s *MonitoringService) StepStarted(def diet.StepDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked(def).InFlight++
}

// StepFinished は段階の結果を記録します。
func (s *MonitoringService) StepFinished(def diet.StepDefinition, res diet.StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stepLocked(def)
	if st.InFlight > 0 {
		st.InFlight--
	}
	st.Runs++
	if res.Status == diet.StatusDegraded {
		st.Degraded++
	}
	if res.TextFallback {
		st.TextFallbacks++
	}
	st.totalElapsed += res.Elapsed
	st.AvgElapsedMs = (st.totalElapsed / time.Duration(st.Runs)).Milliseconds()
}

func (s *MonitoringService) stepLocked(def diet.StepDefinition) *StepStats {
	st, ok := s.steps[def.ID]
	if !ok {
		st = &StepStats{Step: def.ID, Title: def.Title}
		s.steps[def.ID] = st
	}
	return st
}

// StepStatistics は段階ごとの統計を段階の順に返します。
func (s *MonitoringService) StepStatistics() []StepStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StepStats, 0, len(s.steps))
	for _, def := range diet.Steps {
		if st, ok := s.steps[def.ID]; ok {
			out = append(out, *st)
		}
	}
	return out
}

// HourlyCount は1時間ごとのリクエスト数です。
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// NamedValue はグラフ表示用の名前と値の組です。
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EndpointLatency はエンドポイントごとの平均応答時間(ms)です。
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []HourlyCount     `json:"requestsOverTime"`
	Endpoints        map[string]int    `json:"endpoints"`
	StatusCodes      []NamedValue      `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency `json:"avgResponseTimes"`
	RecentErrors     []LogEntry        `json:"recentErrors"`
	DietSteps        []StepStats       `json:"dietSteps"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。時間の区切りはJSTです。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}
	steps := s.StepStatistics()

	s.mu.RLock()
	defer s.mu.RUnlock()

	jst, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		jst = time.FixedZone("JST", 9*60*60)
	}

	now := time.Now().In(jst)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	// 過去から現在へ向かう順に時間のバケットを作る
	overTime := make([]HourlyCount, periodHours)
	bucketIndex := make(map[string]int, periodHours)
	for i := 0; i < periodHours; i++ {
		t := now.Add(-time.Duration(periodHours-1-i) * time.Hour)
		overTime[i] = HourlyCount{Time: t.Format("15:00")}
		bucketIndex[t.Truncate(time.Hour).Format(time.RFC3339)] = i
	}

	endpoints := make(map[string]int)
	statusCounts := map[string]int{"2xx Success": 0, "4xx Client Error": 0, "5xx Server Error": 0}
	latencySum := make(map[string]time.Duration)
	for _, entry := range filtered {
		if i, ok := bucketIndex[entry.Timestamp.In(jst).Truncate(time.Hour).Format(time.RFC3339)]; ok {
			overTime[i].Requests++
		}
		endpoints[entry.Path]++
		latencySum[entry.Path] += entry.ResponseTime
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCounts["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusCounts["4xx Client Error"]++
		case entry.StatusCode >= 500:
			statusCounts["5xx Server Error"]++
		}
	}

	statusCodes := make([]NamedValue, 0, len(statusCounts))
	for name, value := range statusCounts {
		statusCodes = append(statusCodes, NamedValue{Name: name, Value: value})
	}
	sort.Slice(statusCodes, func(i, j int) bool { return statusCodes[i].Name < statusCodes[j].Name })

	latencies := make([]EndpointLatency, 0, len(latencySum))
	for path, total := range latencySum {
		latencies = append(latencies, EndpointLatency{Endpoint: path, ResponseTime: total.Milliseconds() / int64(endpoints[path])})
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i].Endpoint < latencies[j].Endpoint })

	recentErrors := make([]LogEntry, 0)
	for i := len(filtered) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, filtered[i])
		}
	}

	return DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: latencies,
		RecentErrors:     recentErrors,
		DietSteps:        steps,
	}
}
