package types

type Run struct {
	Data  chan Result
	Input chan any
}

func NewRun() Run {
	return Run{
		Input: make(chan any, 1),
		Data:  make(chan Result, 1),
	}
}
