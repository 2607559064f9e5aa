package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/LJTian/LunchHub/internal/collector"
	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/LJTian/LunchHub/internal/notify"
	"github.com/LJTian/LunchHub/internal/presenter"
	"github.com/LJTian/LunchHub/internal/processor"
)

// Ledger 记录当天是否已发送，避免重启或手动触发导致重复发送
type Ledger interface {
	AlreadySent(ctx context.Context, day time.Time) (bool, error)
	MarkSent(ctx context.Context, day time.Time) error
}

// Report 一次执行的结果
type Report struct {
	Menus   []menu.Menu
	Subject string
	Sent    bool
	Skipped bool
}

// Job 抓取全部菜单、渲染并发送。同一时间只执行一次
type Job struct {
	Fetchers   []collector.Fetcher
	Aggregator *processor.Aggregator
	Sender     notify.Sender
	// Ledger 可为空，为空时不做去重
	Ledger Ledger
	Now    func() time.Time

	mu sync.Mutex
}

func (j *Job) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *Job) aggregator() *processor.Aggregator {
	if j.Aggregator == nil {
		return &processor.Aggregator{Now: j.Now}
	}
	return j.Aggregator
}

// Collect 只抓取不发送
func (j *Job) Collect() []menu.Menu {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.aggregator().Collect(j.Fetchers)
}

// Render 把菜单渲染成各渠道需要的消息
func Render(menus []menu.Menu, now time.Time) notify.Message {
	return notify.Message{
		Subject: presenter.Subject(now),
		HTML:    presenter.RenderHTML(menus),
		Text:    presenter.RenderText(menus),
	}
}

// Run 执行一轮抓取与发送。force 为 true 时忽略当天已发送标记。
// 发送失败时返回错误且不写入已发送标记，本轮不重试
func (j *Job) Run(ctx context.Context, force bool) (Report, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	if j.Ledger != nil && !force {
		sent, err := j.Ledger.AlreadySent(ctx, now)
		if err != nil {
			log.Printf("warn: check sent marker: %v", err)
		} else if sent {
			log.Printf("menus for %s already sent, skip", now.Format("2006-01-02"))
			return Report{Skipped: true}, nil
		}
	}

	menus := j.aggregator().Collect(j.Fetchers)
	msg := Render(menus, now)
	report := Report{Menus: menus, Subject: msg.Subject}

	if err := j.Sender.Send(ctx, msg); err != nil {
		return report, err
	}
	report.Sent = true

	if j.Ledger != nil {
		if err := j.Ledger.MarkSent(ctx, now); err != nil {
			log.Printf("warn: mark sent: %v", err)
		}
	}
	return report, nil
}
