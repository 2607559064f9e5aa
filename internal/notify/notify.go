package notify

import (
	"context"
	"errors"
	"fmt"
)

// Message 同一份菜单的两种渲染结果，各渠道取自己需要的格式
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Sender 把渲染好的菜单发送到某个渠道
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Multi 依次发送到所有渠道，某个渠道失败不影响其余渠道
type Multi []Sender

func (m Multi) Name() string {
	return "multi"
}

func (m Multi) Send(ctx context.Context, msg Message) error {
	if len(m) == 0 {
		return errors.New("no delivery channel configured")
	}
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
