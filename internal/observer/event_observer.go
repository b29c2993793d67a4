package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineEvent records a lifecycle event of one analysis run.
type PipelineEvent struct {
	EventType EventType              `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	ImagePath string                 `json:"image_path"`
	Stage     string                 `json:"stage,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// AnalysisStarted when an analysis run begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when a run finishes with a diagnosis
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when a run aborts at some stage
	AnalysisFailed EventType = "analysis_failed"
	// StageCompleted when a single pipeline stage finishes
	StageCompleted EventType = "stage_completed"
	// StageDegraded when a stage falls back to a placeholder result
	StageDegraded EventType = "stage_degraded"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"image_path": event.ImagePath,
		"duration":   event.Duration,
		"success":    event.Success,
	}
	if event.Stage != "" {
		fields["stage"] = event.Stage
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Info("Analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Analysis failed")
	case StageCompleted:
		o.logger.WithFields(fields).Debug("Stage completed")
	case StageDegraded:
		o.logger.WithFields(fields).Warn("Stage degraded")
	default:
		o.logger.WithFields(fields).Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects aggregate counters from pipeline events
type MetricsObserver struct {
	mu                sync.RWMutex
	totalAnalyses     int64
	successfulRuns    int64
	failedRuns        int64
	degradedStages    int64
	totalAnalysisTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.successfulRuns++
		o.totalAnalysisTime += event.Duration
	case AnalysisFailed:
		o.failedRuns++
	case StageDegraded:
		o.degradedStages++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgAnalysisTime := time.Duration(0)
	if o.successfulRuns > 0 {
		avgAnalysisTime = o.totalAnalysisTime / time.Duration(o.successfulRuns)
	}

	return map[string]interface{}{
		"total_analyses":      o.totalAnalyses,
		"successful_runs":     o.successfulRuns,
		"failed_runs":         o.failedRuns,
		"degraded_stages":     o.degradedStages,
		"total_analysis_time": o.totalAnalysisTime,
		"avg_analysis_time":   avgAnalysisTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PipelineEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
