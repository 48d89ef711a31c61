package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("不存在的 key 应返回 ErrStoreNotFound, got %v", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v; want v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Error("删除后应返回 ErrStoreNotFound")
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	// ttl=1 秒：写入后立即可读
	if err := ms.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if _, err := ms.Get(ctx, "k"); err != nil {
		t.Errorf("TTL 内应可读: %v", err)
	}

	// 直接改写过期时间模拟时钟流逝，避免真实 sleep
	past := time.Now().Add(-time.Second)
	ms.mu.Lock()
	ms.data["k"].expire = &past
	ms.mu.Unlock()

	if _, err := ms.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Error("过期后应返回 ErrStoreNotFound")
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	err := ms.BatchSet(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	})
	if err != nil {
		t.Fatalf("BatchSet 失败: %v", err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchGet 失败: %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v, 期望 a=1 b=2 且不含 c", got)
	}
}

func TestMemoryStore_ZSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	// 同分成员按字典序升序，验证确定性
	for member, score := range map[string]float64{
		"30": 4.8,
		"10": 4.5,
		"20": 4.5,
	} {
		if err := ms.ZAdd(ctx, "pop", score, member); err != nil {
			t.Fatalf("ZAdd 失败: %v", err)
		}
	}

	got, err := ms.ZRange(ctx, "pop", 0, -1)
	if err != nil {
		t.Fatalf("ZRange 失败: %v", err)
	}
	want := []string{"30", "10", "20"}
	if len(got) != len(want) {
		t.Fatalf("ZRange 返回 %d 个成员, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ZRange[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// start/stop 截断
	got, err = ms.ZRange(ctx, "pop", 0, 1)
	if err != nil || len(got) != 2 || got[0] != "30" {
		t.Errorf("ZRange(0,1) = %v, %v; want [30 10]", got, err)
	}

	score, err := ms.ZScore(ctx, "pop", "30")
	if err != nil || score != 4.8 {
		t.Errorf("ZScore = %v, %v; want 4.8", score, err)
	}
	if _, err := ms.ZScore(ctx, "pop", "99"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Error("不存在的成员应返回 ErrStoreNotFound")
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "movie:10", "title", []byte("Toy Story")); err != nil {
		t.Fatalf("HSet 失败: %v", err)
	}
	if err := ms.HSet(ctx, "movie:10", "genres", []byte("Animation")); err != nil {
		t.Fatalf("HSet 失败: %v", err)
	}

	got, err := ms.HGet(ctx, "movie:10", "title")
	if err != nil || string(got) != "Toy Story" {
		t.Errorf("HGet = %q, %v; want Toy Story", got, err)
	}

	all, err := ms.HGetAll(ctx, "movie:10")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v, %v; 期望 2 个字段", all, err)
	}
}
