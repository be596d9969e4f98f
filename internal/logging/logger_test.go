package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func initTestLogging(t *testing.T, level string) string {
	t.Helper()
	dir := t.TempDir()
	if err := Initialize(Options{Dir: dir, Level: level, Enabled: true}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(Close)
	return dir
}

func readCategoryLog(t *testing.T, dir string, category Category) string {
	t.Helper()
	date := time.Now().Format("2006-01-02")
	path := filepath.Join(dir, "logs", date+"_"+string(category)+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file %s: %v", path, err)
	}
	return string(data)
}

func TestCategoriesWriteToSeparateFiles(t *testing.T) {
	dir := initTestLogging(t, "info")

	Get(CategoryStore).Info("store message")
	Get(CategoryQueue).Info("queue message")

	storeLog := readCategoryLog(t, dir, CategoryStore)
	if !strings.Contains(storeLog, "store message") {
		t.Errorf("Store log missing message: %q", storeLog)
	}
	if strings.Contains(storeLog, "queue message") {
		t.Error("Queue message leaked into store log")
	}

	queueLog := readCategoryLog(t, dir, CategoryQueue)
	if !strings.Contains(queueLog, "queue message") {
		t.Errorf("Queue log missing message: %q", queueLog)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := initTestLogging(t, "warn")

	l := Get(CategoryGateway)
	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	content := readCategoryLog(t, dir, CategoryGateway)
	if strings.Contains(content, "debug line") || strings.Contains(content, "info line") {
		t.Errorf("Below-threshold lines written: %q", content)
	}
	if !strings.Contains(content, "warn line") || !strings.Contains(content, "error line") {
		t.Errorf("At-threshold lines missing: %q", content)
	}
}

func TestDisabledLoggingIsNoOp(t *testing.T) {
	if err := Initialize(Options{Enabled: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(Close)

	// Must not panic or create files.
	Get(CategoryStore).Info("dropped")
	Store("also dropped")
}

func TestConvenienceHelpers(t *testing.T) {
	dir := initTestLogging(t, "debug")

	Store("store helper %d", 1)
	StoreDebug("store debug helper")
	Queue("queue helper")
	Reconcile("reconcile helper")

	storeLog := readCategoryLog(t, dir, CategoryStore)
	if !strings.Contains(storeLog, "store helper 1") || !strings.Contains(storeLog, "store debug helper") {
		t.Errorf("Store helpers missing: %q", storeLog)
	}
	if !strings.Contains(readCategoryLog(t, dir, CategoryQueue), "queue helper") {
		t.Error("Queue helper missing")
	}
	if !strings.Contains(readCategoryLog(t, dir, CategoryReconcile), "reconcile helper") {
		t.Error("Reconcile helper missing")
	}
}

func TestInitializeRequiresDirWhenEnabled(t *testing.T) {
	if err := Initialize(Options{Enabled: true}); err == nil {
		Close()
		t.Error("Expected error for enabled logging without a directory")
	}
}
