package events

import (
	"log"
	"sync"
	"time"
)

// 会员生命周期事件类型
const (
	TypeMembershipGranted     = "membership_granted"
	TypeMembershipRevoked     = "membership_revoked"
	TypeMembershipExpired     = "membership_expired"
	TypeMembershipExtended    = "membership_extended"
	TypeMembershipReactivated = "membership_reactivated"
)

// Event 会员生命周期事件
type Event struct {
	Type         string    `json:"type"`
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	PlanID       int64     `json:"plan_id"`
	OrderID      int64     `json:"order_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Listener 事件监听器，在持久化写入之后同步调用
type Listener func(Event)

// Bus 进程内事件总线
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
	}
}

// Subscribe 注册指定类型的监听器
func (b *Bus) Subscribe(eventType string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], l)
}

// SubscribeAll 注册所有类型的监听器
func (b *Bus) SubscribeAll(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[""] = append(b.listeners[""], l)
}

// Publish 同步通知所有监听器，监听器 panic 不影响其他监听器
func (b *Bus) Publish(evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}

	b.mu.RLock()
	typed := b.listeners[evt.Type]
	all := b.listeners[""]
	b.mu.RUnlock()

	for _, l := range typed {
		b.invoke(l, evt)
	}
	for _, l := range all {
		b.invoke(l, evt)
	}
}

func (b *Bus) invoke(l Listener, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event listener panic for %s: %v", evt.Type, r)
		}
	}()
	l(evt)
}
