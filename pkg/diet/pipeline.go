package diet

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"
)

// StepID は段階の識別子です。
type StepID string

const (
	StepProfile      StepID = "profile"
	StepHealth       StepID = "health"
	StepCalories     StepID = "calories"
	StepDietary      StepID = "dietary"
	StepRegional     StepID = "regional"
	StepPlanning     StepID = "planning"
	StepOptimization StepID = "optimization"
)

// StepDefinition は段階の表示情報です。
type StepDefinition struct {
	ID          StepID `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ChartType   string `json:"chartType,omitempty"`
}

// Steps は実行順に並べた7段階です。
var Steps = []StepDefinition{
	{StepProfile, 1, "User Profile Analysis", "Analyzing your physical metrics, goals, and lifestyle", "Profile-Based"},
	{StepHealth, 2, "Health & BMI Assessment", "Evaluating health status and metabolic requirements", "Health-Focused"},
	{StepCalories, 3, "Calorie Balance Analysis", "Calculating optimal calorie intake vs burn ratio", "Calorie-Optimized"},
	{StepDietary, 4, "Dietary Preference Strategy", "Customizing food choices based on your preferences", "Preference-Aligned"},
	{StepRegional, 5, "Regional Food Integration", "Incorporating local and culturally appropriate foods", "Regional-Integrated"},
	{StepPlanning, 6, "Meal Plan Generation", "Creating detailed meal schedules and portions", "Complete-Meal-Plan"},
	{StepOptimization, 7, "Final Optimization", "Fine-tuning the diet chart for maximum effectiveness", ""},
}

// StepStatus は段階の結果区分です。
type StepStatus string

const (
	StatusOK       StepStatus = "ok"
	StatusDegraded StepStatus = "degraded"
)

// StepResult は1段階の実行結果です。
type StepResult struct {
	Step         StepID        `json:"step"`
	Number       int           `json:"number"`
	Title        string        `json:"title"`
	Status       StepStatus    `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	TextFallback bool          `json:"textFallback"`
	Fragment     string        `json:"fragment"`
	Elapsed      time.Duration `json:"elapsedNs"`
}

// State は実行中のパイプラインの状態です。各段階は State を受け取り、新しい State を返します。
type State struct {
	Profile Profile            `json:"profile"`
	Metrics Metrics            `json:"metrics"`
	Insight Insight            `json:"insight"`
	Charts  []ProgressiveChart `json:"charts"`
	Results []StepResult       `json:"results"`
}

// NewState はプロフィールを検証して初期状態を作ります。
func NewState(p Profile) (State, error) {
	if err := p.Validate(); err != nil {
		return State{}, err
	}
	p = p.withDefaults()
	return State{Profile: p, Metrics: p.Metrics()}, nil
}

// Chart は指定段階(1-6)の食事表を返します。
func (s State) Chart(step int) (ProgressiveChart, bool) {
	for _, c := range s.Charts {
		if c.StepLevel == step {
			return c, true
		}
	}
	return ProgressiveChart{}, false
}

// LastChart は最後に作られた食事表を返します。
func (s State) LastChart() (ProgressiveChart, bool) {
	if len(s.Charts) == 0 {
		return ProgressiveChart{}, false
	}
	return s.Charts[len(s.Charts)-1], true
}

// withChart は食事表を追加した State を返します。元の State のスライスは共有しません。
func (s State) withChart(c ProgressiveChart) State {
	charts := make([]ProgressiveChart, len(s.Charts), len(s.Charts)+1)
	copy(charts, s.Charts)
	s.Charts = append(charts, c)
	return s
}

func (s State) withResult(r StepResult) State {
	results := make([]StepResult, len(s.Results), len(s.Results)+1)
	copy(results, s.Results)
	s.Results = append(results, r)
	return s
}

// Observer は段階の開始と終了を受け取ります。
type Observer interface {
	StepStarted(def StepDefinition)
	StepFinished(def StepDefinition, result StepResult)
}

// Options はパイプラインの設定です。
type Options struct {
	StepDelay  time.Duration
	AdjustMode AdjustMode
	Prompts    PromptSet
	Observer   Observer
}

// Pipeline は7段階の食事プラン生成を順に実行します。状態は持たず、複数の実行で共有できます。
type Pipeline struct {
	advisor   *Advisor
	allocator Allocator
	delay     time.Duration
	prompts   map[StepID]*template.Template
	observer  Observer
	steps     map[StepID]stepFuncs
}

// NewPipeline は新しいPipelineを生成します。
func NewPipeline(gen TextGenerator, opts Options) (*Pipeline, error) {
	prompts, err := compilePrompts(opts.Prompts)
	if err != nil {
		return nil, err
	}
	mode := opts.AdjustMode
	if mode == "" {
		mode = AdjustReset
	}
	p := &Pipeline{
		advisor:   NewAdvisor(gen),
		allocator: Allocator{Mode: mode},
		delay:     opts.StepDelay,
		prompts:   prompts,
		observer:  opts.Observer,
	}
	p.steps = p.stepTable()
	return p, nil
}

// Run はプロフィールから7段階すべてを実行します。失敗した段階は劣化した結果になり、実行は次の段階に進みます。
// プロフィールが不正な場合と、代替結果も作れなかった場合だけエラーを返します。
func (p *Pipeline) Run(ctx context.Context, profile Profile) (State, error) {
	st, err := NewState(profile)
	if err != nil {
		return State{}, err
	}
	for i, def := range Steps {
		var res StepResult
		st, res, err = p.RunStep(ctx, def, st)
		if err != nil {
			return st, fmt.Errorf("step %s: %w", def.ID, err)
		}
		log.Printf("🟢 ステップ%d (%s) 完了: status=%s", def.Number, def.ID, res.Status)
		if p.delay > 0 && i < len(Steps)-1 {
			time.Sleep(p.delay)
		}
	}
	return st, nil
}

// RunStep は1段階を実行します。段階内の失敗は代替結果に置き換えます。
func (p *Pipeline) RunStep(ctx context.Context, def StepDefinition, st State) (State, StepResult, error) {
	fns, ok := p.steps[def.ID]
	if !ok {
		return st, StepResult{}, fmt.Errorf("unknown step %q", def.ID)
	}
	start := time.Now()
	res := StepResult{Step: def.ID, Number: def.Number, Title: def.Title, Status: StatusOK}
	if p.observer != nil {
		p.observer.StepStarted(def)
		// 代替結果の失敗で戻る場合も終了を通知します
		defer func() { p.observer.StepFinished(def, res) }()
	}

	out, err := safeRun(func() (stepOutput, error) { return fns.run(ctx, st) })
	if err != nil {
		log.Printf("⚠️ ステップ%d (%s) で失敗したため代替結果を使用します: %v", def.Number, def.ID, err)
		res.Status = StatusDegraded
		res.Reason = err.Error()
		out, err = safeRun(func() (stepOutput, error) { return fns.fallback(st) })
		if err != nil {
			res.Elapsed = time.Since(start)
			return st, res, fmt.Errorf("fallback failed: %w", err)
		}
	}
	res.Fragment = out.fragment
	res.TextFallback = out.textFallback
	res.Elapsed = time.Since(start)
	return out.state.withResult(res), res, nil
}

// stepOutput は段階関数の戻り値です。
type stepOutput struct {
	state        State
	fragment     string
	textFallback bool
}

type stepFuncs struct {
	run      func(ctx context.Context, st State) (stepOutput, error)
	fallback func(st State) (stepOutput, error)
}

// safeRun は panic をエラーに変換します。
func safeRun(fn func() (stepOutput, error)) (out stepOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (p *Pipeline) buildPrompt(id StepID, st State) (string, error) {
	t, ok := p.prompts[id]
	if !ok {
		return "", fmt.Errorf("no prompt template for %q", id)
	}
	var b strings.Builder
	if err := t.Execute(&b, newPromptData(st)); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", id, err)
	}
	return b.String(), nil
}

// ask はプロンプトを組み立てて生成AIに問い合わせます。
func (p *Pipeline) ask(ctx context.Context, id StepID, st State) (Generation, error) {
	prompt, err := p.buildPrompt(id, st)
	if err != nil {
		return Generation{}, err
	}
	profile := st.Profile
	return p.advisor.Generate(ctx, prompt, &profile), nil
}
