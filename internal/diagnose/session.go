package diagnose

import (
	"context"
	"sync"
	"time"

	"netdiag/internal/config"
	"netdiag/internal/logger"
	"netdiag/internal/models"
	"netdiag/internal/probe"
)

// SessionState 会话状态机
// @Description Idle → Collecting → Classifying → Done；
// 会话超时走 Collecting → TimedOut → Classifying(部分信号)；会话内无重试
type SessionState string

const (
	SessionIdle        SessionState = "idle"
	SessionCollecting  SessionState = "collecting"
	SessionTimedOut    SessionState = "timed_out"
	SessionClassifying SessionState = "classifying"
	SessionDone        SessionState = "done"
)

// ProbeObserver 探针执行回调，用于指标上报
type ProbeObserver func(probeName string, state models.SignalState, seconds float64)

// Session 一次诊断会话
// @Description 持有会话生命周期：并发调度探针、实施单探针与会话两级超时、
// 冻结信号集合交给分类器、生成报告
type Session struct {
	cfg      config.DiagnoseConfig
	opts     *probe.Options
	set      *models.SignalSet
	cls      *Classifier
	observer ProbeObserver

	mu    sync.Mutex
	state SessionState
}

/**
 * Create a diagnostic session
 * @param {config.DiagnoseConfig} cfg - Diagnose configuration
 * @returns {*Session} Session in Idle state
 * @returns {error} Only for invalid configuration (bad target, bad CIDR, empty lists)
 */
func NewSession(cfg config.DiagnoseConfig) (*Session, error) {
	opts, err := probe.BuildOptions(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{
		cfg:   cfg,
		opts:  opts,
		set:   models.NewSignalSet(),
		cls:   NewClassifier(DefaultRules(), ClassifierOptions{FastLatencyMs: int64(cfg.FastLatencyMs)}),
		state: SessionIdle,
	}, nil
}

// SetObserver 注册探针执行回调，必须在Run之前调用
func (s *Session) SetObserver(fn ProbeObserver) {
	s.observer = fn
}

// State 返回当前会话状态
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

/**
 * Run the diagnostic session
 * @param {context.Context} ctx - Caller context, cancellation propagates to probes
 * @returns {*models.Report} Always produced, even on total probe failure
 * @returns {error} Never for network degradation; reserved for future programmer errors
 * @description
 * - 第一波并发执行无前置依赖的探针(环境、系统代理、DNS、端口扫描、直连)
 * - 第二波基于第一波信号派生(各候选端点的代理连通性、时延判别、管理API)
 * - 会话超时后冻结已有信号直接进入分类；缺失信号按unknown维度参与规则代入
 */
func (s *Session) Run(ctx context.Context) (*models.Report, error) {
	s.setState(SessionCollecting)

	sessionCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.SessionTimeoutMs)*time.Millisecond)
	defer cancel()
	probeTimeout := time.Duration(s.cfg.ProbeTimeoutMs) * time.Millisecond

	// 第一波：相互独立的基础探针
	wave1 := []probe.Prober{
		&probe.EnvProbe{},
		&probe.SystemProxyProbe{},
		&probe.PortSweepProbe{},
		&probe.DirectProbe{},
		&probe.DNSProbe{},
	}
	for _, resolver := range s.opts.Resolvers {
		wave1 = append(wave1, &probe.DNSProbe{Resolver: resolver})
	}
	s.runWave(sessionCtx, wave1, probeTimeout)

	// 第二波：依赖第一波观测结果的探针
	var wave2 []probe.Prober
	var openPorts []int
	if sig, ok := s.set.Get("listeners.candidates"); ok && sig.State == models.StateOk {
		openPorts = sig.Ports
		for _, ep := range probe.Endpoints(sig) {
			for _, proto := range ep.Protocols {
				wave2 = append(wave2, &probe.ProxyProbe{Endpoint: ep, Protocol: proto})
			}
		}
	}
	wave2 = append(wave2, &probe.ClashAPIProbe{Ports: openPorts})
	wave2 = append(wave2, &probe.LatencyProbe{Address: s.ambiguousAddress()})
	s.runWave(sessionCtx, wave2, probeTimeout)

	timedOut := sessionCtx.Err() != nil
	if timedOut {
		s.setState(SessionTimedOut)
		logger.Warnf("诊断会话超时，基于 %d 个已采集信号继续分类", s.set.Len())
	}

	s.set.Freeze()
	s.setState(SessionClassifying)
	diag := s.cls.Classify(s.set)
	report := BuildReport(s.opts.Target, s.set, diag, timedOut)
	s.setState(SessionDone)
	return report, nil
}

/**
 * Run one wave of probes concurrently
 * @description
 * - 每个探针有独立的超时上下文，超时只产生Timeout信号，不影响兄弟探针
 * - 取消只自上而下传播：探针内部失败从不取消会话
 * - 探针不得跨网络调用持有锁；信号集合写入是唯一共享点
 */
func (s *Session) runWave(ctx context.Context, probers []probe.Prober, timeout time.Duration) {
	var wg sync.WaitGroup
	for _, p := range probers {
		wg.Add(1)
		go func(p probe.Prober) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			signals := p.Run(pctx, s.opts)
			elapsed := time.Since(start).Seconds()

			worst := models.StateOk
			for _, sig := range signals {
				if err := s.set.Put(sig); err != nil {
					logger.Warnf("丢弃迟到信号: %v", err)
				}
				if sig.State != models.StateOk {
					worst = sig.State
				}
			}
			if s.observer != nil {
				s.observer(p.Name(), worst, elapsed)
			}
		}(p)
	}
	wg.Wait()
}

// ambiguousAddress 返回需要时延判别的歧义地址；无歧义时为空串，时延探针将跳过
func (s *Session) ambiguousAddress() string {
	for _, name := range s.set.Names() {
		sig, _ := s.set.Get(name)
		if sig.Kind != models.KindResolvedAddress || sig.State != models.StateOk {
			continue
		}
		if sig.Class != models.ClassAmbiguous {
			continue
		}
		if len(sig.Addresses) > 0 {
			return sig.Addresses[0]
		}
	}
	return ""
}
