package jobs

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a recurring task: a name for logs, a cron spec and a body.
type Job interface {
	Name() string
	Spec() string
	Run() error
}

// StartScheduler registers every job on a shared cron and starts it.
// Overlapping runs of the same job are skipped.
func StartScheduler(jobs ...Job) *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.Spec(), func() {
			if err := job.Run(); err != nil {
				log.Printf("[%s] failed: %v", job.Name(), err)
			}
		})
		if err != nil {
			log.Fatalf("[%s] bad cron spec %q: %v", job.Name(), job.Spec(), err)
		}
		log.Printf("[%s] scheduled %q", job.Name(), job.Spec())
	}

	c.Start()
	return c
}
