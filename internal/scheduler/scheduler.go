package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout 一轮抓取 + 发送的上限；单个请求另有 10 秒超时
const jobTimeout = 10 * time.Minute

type Scheduler struct {
	cron *cron.Cron
	job  *Job
}

func New(spec string, loc *time.Location, job *Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	s := &Scheduler{
		cron: c,
		job:  job,
	}

	_, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	if entries := s.cron.Entries(); len(entries) > 0 {
		log.Printf("scheduler started, next run at %s", entries[0].Next.Format(time.RFC3339))
	}
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start lunch job...")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.job.Run(ctx, false)
	switch {
	case err != nil:
		log.Printf("lunch job error: %v", err)
	case report.Skipped:
		log.Println("lunch job skipped")
	default:
		log.Printf("lunch job done, subject=%q menus=%d", report.Subject, len(report.Menus))
	}
}
