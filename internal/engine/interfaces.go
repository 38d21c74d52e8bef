package engine

// Progress receives batch progress. The CLI renders it as a progress bar.
type Progress interface {
	Start(total int, description string)
	Increment()
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int, string) {}
func (noopProgress) Increment()        {}
func (noopProgress) Finish()           {}
