package models

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// SignalKind 信号观测值类型
type SignalKind string

const (
	KindResolvedAddress SignalKind = "resolved_address"
	KindBoolean         SignalKind = "boolean"
	KindLatency         SignalKind = "latency_ms"
	KindListenerList    SignalKind = "listener_list"
	KindHTTPStatus      SignalKind = "http_status"
)

// SignalState 信号采集状态
type SignalState string

const (
	StateOk      SignalState = "ok"
	StateTimeout SignalState = "timeout"
	StateError   SignalState = "error"
	StateSkipped SignalState = "skipped"
)

// AddressClass DNS解析地址的分类结果
type AddressClass string

const (
	ClassSentinel  AddressClass = "sentinel"
	ClassAmbiguous AddressClass = "ambiguous"
	ClassReal      AddressClass = "real"
)

// Signal 单次网络观测结果
// @Description 一个探针在一次诊断会话中产出的命名观测值
type Signal struct {
	Name        string       `json:"name" example:"dns.local" description:"信号名称，会话内唯一"`
	Kind        SignalKind   `json:"kind" example:"resolved_address" description:"观测值类型"`
	State       SignalState  `json:"state" example:"ok" description:"采集状态"`
	Addresses   []string     `json:"addresses,omitempty" description:"解析得到的地址列表"`
	Class       AddressClass `json:"class,omitempty" example:"sentinel" description:"地址分类(仅DNS信号)"`
	Bool        bool         `json:"bool,omitempty" description:"布尔观测值"`
	LatencyMs   int64        `json:"latencyMs,omitempty" example:"42" description:"耗时(毫秒)"`
	Ports       []int        `json:"ports,omitempty" description:"监听端口列表"`
	StatusCode  int          `json:"statusCode,omitempty" example:"204" description:"HTTP状态码"`
	Detail      string       `json:"detail,omitempty" description:"补充说明(端点地址、错误信息等)"`
	CollectedAt time.Time    `json:"collectedAt" description:"采集时间"`
}

// SignalSet 一次诊断会话内所有信号的集合
// @Description 并发安全；冻结后只读，供分类器使用
type SignalSet struct {
	mu      sync.RWMutex
	signals map[string]Signal
	frozen  bool
	froze   time.Time
}

// NewSignalSet 创建空信号集合
func NewSignalSet() *SignalSet {
	return &SignalSet{
		signals: make(map[string]Signal),
	}
}

/**
 * Record a signal into the set
 * @param {Signal} sig - Signal to record
 * @returns {error} Error if the set is already frozen
 * @description
 * - Same name overwrites the previous value, never appends duplicates
 * - Stamps CollectedAt if the probe did not set it
 * - Safe for concurrent callers
 */
func (s *SignalSet) Put(sig Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return fmt.Errorf("signal set frozen, rejecting %q", sig.Name)
	}
	if sig.CollectedAt.IsZero() {
		sig.CollectedAt = time.Now()
	}
	s.signals[sig.Name] = sig
	return nil
}

// Get 按名称读取信号
func (s *SignalSet) Get(name string) (Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signals[name]
	return sig, ok
}

// Len 返回信号数量
func (s *SignalSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

// Names 返回排序后的信号名称列表
func (s *SignalSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.signals))
	for name := range s.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/**
 * Freeze the set before classification
 * @description
 * - Irreversible; later Put calls fail
 * - Freeze time is reused by the report builder so rebuilding is byte-stable
 */
func (s *SignalSet) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.frozen {
		s.frozen = true
		s.froze = time.Now()
	}
}

// Frozen 集合是否已冻结
func (s *SignalSet) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// FrozenAt 返回冻结时间，未冻结时为零值
func (s *SignalSet) FrozenAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.froze
}
