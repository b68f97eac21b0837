package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"workoutvibes-api/pkg/diet"
)

var (
	// ErrRunInProgress は同じセッションで実行中の食事プランがあることを表します。
	ErrRunInProgress = errors.New("a diet plan run is already in progress for this session")
	// ErrRunNotFound は指定された実行結果がないことを表します。
	ErrRunNotFound = errors.New("diet plan run not found")
)

// DietRun は1回の食事プラン生成の結果です。
type DietRun struct {
	ID         string                  `json:"run_id"`
	SessionID  string                  `json:"session_id"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Steps      []diet.StepResult       `json:"steps"`
	State      diet.State              `json:"state"`
	FinalChart diet.NormalizedMealPlan `json:"final_chart"`
	SaveData   diet.ChartData          `json:"save_data"`
}

// PipelineService は食事プランの実行をセッションごとに1つに制限し、結果を一定件数保持します。
type PipelineService struct {
	pipeline *diet.Pipeline
	maxRuns  int

	mu     sync.Mutex
	active map[string]struct{}
	runs   map[string]*DietRun
	order  []string
}

// 既定で保持する実行結果の件数
const defaultMaxRuns = 200

// NewPipelineService は新しいPipelineServiceを生成します。
func NewPipelineService(pipeline *diet.Pipeline, maxRuns int) *PipelineService {
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}
	return &PipelineService{
		pipeline: pipeline,
		maxRuns:  maxRuns,
		active:   make(map[string]struct{}),
		runs:     make(map[string]*DietRun),
	}
}

// Run は7段階を実行して結果を保存します。sessionID が空なら新しく採番します。
func (s *PipelineService) Run(ctx context.Context, sessionID string, profile diet.Profile) (*DietRun, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := s.acquire(sessionID); err != nil {
		return nil, err
	}
	defer s.release(sessionID)

	run := &DietRun{ID: uuid.NewString(), SessionID: sessionID, StartedAt: time.Now()}
	log.Printf("🚀 食事プランの生成を開始します (run=%s, session=%s)", run.ID, sessionID)

	st, err := s.pipeline.Run(ctx, profile)
	if err != nil {
		log.Printf("❌ 食事プランの生成に失敗しました (run=%s): %v", run.ID, err)
		return nil, err
	}

	run.FinishedAt = time.Now()
	run.State = st
	run.Steps = st.Results
	run.FinalChart = diet.ExtractFinal(&st)
	run.SaveData = diet.SaveData(&st)

	s.store(run)
	log.Printf("🟢 食事プランの生成が完了しました (run=%s, %d kcal)", run.ID, run.FinalChart.TotalCalories)
	return run, nil
}

// Get は保存済みの実行結果を返します。
func (s *PipelineService) Get(id string) (*DietRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Running はセッションが実行中かどうかを返します。
func (s *PipelineService) Running(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[sessionID]
	return ok
}

func (s *PipelineService) acquire(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[sessionID]; busy {
		return ErrRunInProgress
	}
	s.active[sessionID] = struct{}{}
	return nil
}

func (s *PipelineService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}

// store は結果を保存し、上限を超えた古い結果を捨てます。
func (s *PipelineService) store(run *DietRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	for len(s.order) > s.maxRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}
