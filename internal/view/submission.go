package view

import (
	"context"
	"fmt"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/models"
)

// Analyzer runs one analysis. *analysis.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Observer is notified of every state the page passes through.
type Observer func(PageState)

// Submitter drives one page through Idle -> Loading -> Displayed or
// ErrorDisplayed. Submissions are independent; a second Submit while one
// is in flight is not cancelled or serialized.
type Submitter struct {
	analyzer Analyzer
	observer Observer
}

// NewSubmitter creates a Submitter backed by analyzer.
func NewSubmitter(analyzer Analyzer) *Submitter {
	return &Submitter{analyzer: analyzer}
}

// SetObserver registers fn to receive each state transition.
func (s *Submitter) SetObserver(fn Observer) {
	s.observer = fn
}

// Submit runs req and returns the final page state. The loading indicator
// is hidden on every exit path, including a panicking analyzer.
func (s *Submitter) Submit(ctx context.Context, req models.AnalysisRequest) (state PageState) {
	state = loadingState()
	s.emit(state)

	defer func() {
		if rec := recover(); rec != nil {
			state = errorState(fmt.Sprint(rec))
		}
		state.LoadingVisible = false
		s.emit(state)
	}()

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return errorState(analysis.UserMessage(err))
	}

	state = displayedState(Render(result))
	return state
}

func (s *Submitter) emit(state PageState) {
	if s.observer != nil {
		s.observer(state)
	}
}
