package metrics

type Counter interface {
	Inc()
	Add(delta float64)
}

type Metrics struct {
	RetryAttempts    Counter
	RetriesExhausted Counter
	CandlesFetched   Counter
	RowsAligned      Counter
}

type noopCounter struct{}

func (noopCounter) Inc()              {}
func (noopCounter) Add(delta float64) {}

func NewNoop() *Metrics {
	n := noopCounter{}
	return &Metrics{
		RetryAttempts:    n,
		RetriesExhausted: n,
		CandlesFetched:   n,
		RowsAligned:      n,
	}
}
