package view

// Phase is the submission lifecycle position of the page.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDisplayed
	PhaseErrorDisplayed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplayed:
		return "displayed"
	case PhaseErrorDisplayed:
		return "error"
	default:
		return "unknown"
	}
}

// PageState describes which page regions are visible and what they hold.
type PageState struct {
	Phase          Phase
	LoadingVisible bool
	ResultsVisible bool
	ErrorVisible   bool
	Results        *ResultsView
	ErrorMessage   string
	Toasts         []Toast
}

// loadingState hides prior results and errors and shows the indicator.
func loadingState() PageState {
	return PageState{Phase: PhaseLoading, LoadingVisible: true}
}

func displayedState(results ResultsView) PageState {
	return PageState{
		Phase:          PhaseDisplayed,
		LoadingVisible: true,
		ResultsVisible: true,
		Results:        &results,
	}
}

func errorState(message string) PageState {
	return PageState{
		Phase:          PhaseErrorDisplayed,
		LoadingVisible: true,
		ErrorVisible:   true,
		ErrorMessage:   message,
		Toasts:         []Toast{NewToast(message, ToastError)},
	}
}
