package game

import (
	"testing"
)

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.PlayerCount != 1 {
		t.Errorf("PlayerCount: got %d, want 1", settings.PlayerCount)
	}
	if settings.ShowHitboxes {
		t.Error("ShowHitboxes: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}
	if settings.PlayerCount != 1 {
		t.Errorf("Degraded mode PlayerCount: got %d, want 1", settings.PlayerCount)
	}

	// 降级模式下 Save() 不报错
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	manager := createTestGdataManager(t, "settings")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	sm1, err := NewSettingsManager(manager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	sm1.SetPlayerCount(2)
	sm1.SetShowHitboxes(true)
	sm1.SetFullscreen(true)

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, err := NewSettingsManager(manager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error on reload: %v", err)
	}

	settings := sm2.GetSettings()
	if settings.PlayerCount != 2 {
		t.Errorf("Loaded PlayerCount: got %d, want 2", settings.PlayerCount)
	}
	if !settings.ShowHitboxes {
		t.Error("Loaded ShowHitboxes: got false, want true")
	}
	if !settings.Fullscreen {
		t.Error("Loaded Fullscreen: got false, want true")
	}
}

// TestSetPlayerCountClamp 测试 SetPlayerCount 范围校验
func TestSetPlayerCountClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		input    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{-1, 0},
		{3, 2},
		{100, 2},
	}

	for _, tt := range tests {
		sm.SetPlayerCount(tt.input)
		if got := sm.GetSettings().PlayerCount; got != tt.expected {
			t.Errorf("SetPlayerCount(%d): got %d, want %d", tt.input, got, tt.expected)
		}
	}
}

// TestLoadNilGdataManager 测试降级模式下 Load() 恢复默认设置
func TestLoadNilGdataManager(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	sm.SetShowHitboxes(true)

	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().ShowHitboxes {
		t.Error("After Load() in degraded mode, ShowHitboxes should be reset to false")
	}
}
