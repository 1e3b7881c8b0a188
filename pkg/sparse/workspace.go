package sparse

import "sync"

// workspace holds the dense scratch arrays a semiring multiply scatters
// into. Iterative kernels issue one multiply per iteration, so workspaces
// are pooled rather than reallocated. Marks are reset entry-by-entry on
// release, keeping release cost proportional to the touched set.
type workspace struct {
	acc     []float64
	mark    []bool
	touched []int
}

var wsPool = sync.Pool{
	New: func() any { return &workspace{} },
}

// getWorkspace returns a workspace with capacity for n positions and all
// marks clear.
func getWorkspace(n int) *workspace {
	ws := wsPool.Get().(*workspace)
	if cap(ws.acc) < n {
		ws.acc = make([]float64, n)
		ws.mark = make([]bool, n)
	}
	ws.acc = ws.acc[:cap(ws.acc)]
	ws.mark = ws.mark[:cap(ws.mark)]
	ws.touched = ws.touched[:0]
	return ws
}

// hit accumulates a product at position j, seeding on first touch.
func (ws *workspace) hit(j int, x float64, fold func(a, b float64) float64) {
	if !ws.mark[j] {
		ws.mark[j] = true
		ws.acc[j] = x
		ws.touched = append(ws.touched, j)
		return
	}
	ws.acc[j] = fold(ws.acc[j], x)
}

// release clears the touched marks and returns the workspace to the pool.
func (ws *workspace) release() {
	for _, j := range ws.touched {
		ws.mark[j] = false
	}
	ws.touched = ws.touched[:0]
	wsPool.Put(ws)
}
