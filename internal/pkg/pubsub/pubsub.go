package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelMembershipEvents = "membership_events"
)

// MembershipMessage 会员生命周期消息
type MembershipMessage struct {
	Type         string    `json:"type"`
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	PlanID       int64     `json:"plan_id"`
	OrderID      int64     `json:"order_id,omitempty"`
	Tier         string    `json:"tier,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Message      string    `json:"message,omitempty"`
}

// 事件对应的消息
var TypeMessages = map[string]string{
	"membership_granted":     "会员已开通",
	"membership_revoked":     "会员已取消",
	"membership_expired":     "会员已过期",
	"membership_extended":    "会员已延期",
	"membership_reactivated": "会员已恢复",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishMembership 发布会员生命周期消息
func (p *Publisher) PublishMembership(ctx context.Context, msg *MembershipMessage) error {
	// 自动填充消息文案
	if msg.Message == "" && msg.Type != "" {
		if message, ok := TypeMessages[msg.Type]; ok {
			msg.Message = message
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal membership message: %w", err)
	}

	return p.client.Publish(ctx, ChannelMembershipEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅会员生命周期消息
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*MembershipMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelMembershipEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var membershipMsg MembershipMessage
			if err := json.Unmarshal([]byte(msg.Payload), &membershipMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&membershipMsg)
		}
	}
}
