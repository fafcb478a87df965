//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 应用私有目录可写
// gdata 在 Android 上写入 /data/data/{package}/，但不会预先创建目录
func EnsureStorageDir() error {
	pkg, err := androidPackage()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "files")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return nil
}

// androidPackage 从 /proc/self/cmdline 读取包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := strings.TrimRight(strings.SplitN(string(data), "\x00", 2)[0], "\n")
	if name == "" {
		return "", fmt.Errorf("empty process name")
	}
	return name, nil
}
