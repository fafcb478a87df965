package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SessionInfo 对局会话的持久化状态
type SessionInfo struct {
	Player1Score int       `yaml:"player1Score"`
	Player2Score int       `yaml:"player2Score"`
	WeaponType   string    `yaml:"weaponType"`
	PlayerCount  int       `yaml:"playerCount"`
	UpdatedAt    time.Time `yaml:"updatedAt"`
}

// SessionStore 会话状态存储
// 进入回合时读取，比分或武器变化时写入
type SessionStore interface {
	// Load 读取会话；从未保存过时返回 (nil, nil)
	Load() (*SessionInfo, error)
	Save(info *SessionInfo) error
}

// MemorySessionStore 内存存储（测试和无窗口运行使用）
type MemorySessionStore struct {
	info  *SessionInfo
	saves int
}

// NewMemorySessionStore 创建空的内存存储
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Load 返回最近一次保存的副本
func (s *MemorySessionStore) Load() (*SessionInfo, error) {
	if s.info == nil {
		return nil, nil
	}
	copied := *s.info
	return &copied, nil
}

// Save 保存副本
func (s *MemorySessionStore) Save(info *SessionInfo) error {
	if info == nil {
		return fmt.Errorf("session info cannot be nil")
	}
	copied := *info
	s.info = &copied
	s.saves++
	return nil
}

// Saves 返回保存次数
func (s *MemorySessionStore) Saves() int { return s.saves }

// 存储路径常量
const (
	sessionObject   = "session"
	sessionProperty = "current"
)

// GdataSessionStore 基于 gdata 的跨平台会话存储，数据为 YAML
type GdataSessionStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，不持久化）
}

// NewGdataSessionStore 创建会话存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewGdataSessionStore(gdataManager *gdata.Manager) *GdataSessionStore {
	return &GdataSessionStore{gdataManager: gdataManager}
}

// Load 从 gdata 读取会话
func (s *GdataSessionStore) Load() (*SessionInfo, error) {
	if s.gdataManager == nil {
		return nil, nil
	}
	if !s.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil, nil
	}

	data, err := s.gdataManager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var info SessionInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &info, nil
}

// Save 写入 gdata，降级模式下不报错
func (s *GdataSessionStore) Save(info *SessionInfo) error {
	if s.gdataManager == nil {
		return nil
	}
	if info == nil {
		return fmt.Errorf("session info cannot be nil")
	}

	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("[SessionStore] Session saved: %d-%d (%s)", info.Player1Score, info.Player2Score, info.WeaponType)
	return nil
}
