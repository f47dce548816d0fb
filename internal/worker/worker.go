// File: internal/worker/worker.go
package worker

import "sync"

// Job 代表池中執行的一項背景工作。
type Job func()

// Pool defines a simple worker pool for background jobs.
type Pool interface {
	Submit(Job)
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Job, n*4)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					job()
				}
			}
		}()
	}
	return p
}

type pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

func (p *pool) Submit(j Job) {
	p.jobs <- j
}

// Stop 關閉佇列並等待所有工作完成。
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
