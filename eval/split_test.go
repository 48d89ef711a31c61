package eval

import (
	"testing"

	"github.com/rushteam/movierec/dataset"
)

func splitInput() []dataset.Rating {
	var out []dataset.Rating
	for u := int64(1); u <= 5; u++ {
		for m := int64(1); m <= 10; m++ {
			out = append(out, dataset.Rating{UserID: u, MovieID: m * 10, Rating: 3.0})
		}
	}
	return out
}

func TestSplit_Deterministic(t *testing.T) {
	opts := SplitOptions{TestFraction: 0.3, Seed: 42}
	trainA, testA := Split(splitInput(), opts)
	trainB, testB := Split(splitInput(), opts)

	if len(trainA) != len(trainB) || len(testA) != len(testB) {
		t.Fatalf("固定种子两次划分长度应一致")
	}
	for i := range testA {
		if testA[i] != testB[i] {
			t.Fatalf("固定种子两次划分应完全一致: %+v vs %+v", testA[i], testB[i])
		}
	}
}

func TestSplit_NoOverlapAndComplete(t *testing.T) {
	in := splitInput()
	train, test := Split(in, SplitOptions{TestFraction: 0.2, Seed: 1})

	if len(train)+len(test) != len(in) {
		t.Fatalf("划分应无丢失: %d + %d != %d", len(train), len(test), len(in))
	}
	seen := make(map[dataset.Rating]struct{}, len(train))
	for _, r := range train {
		seen[r] = struct{}{}
	}
	for _, r := range test {
		if _, ok := seen[r]; ok {
			t.Fatalf("训练与留出集不应重叠: %+v", r)
		}
	}
}

func TestSplit_AllTestUsersInTrain(t *testing.T) {
	train, test := Split(splitInput(), SplitOptions{TestFraction: 0.4, Seed: 7})
	trainUsers := make(map[int64]struct{})
	for _, r := range train {
		trainUsers[r.UserID] = struct{}{}
	}
	for _, r := range test {
		if _, ok := trainUsers[r.UserID]; !ok {
			t.Errorf("留出集用户 %d 应出现在训练侧", r.UserID)
		}
	}
}

func TestSplit_TinyUsersStayInTrain(t *testing.T) {
	in := []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 4.0}, // 只有一条评分
	}
	train, test := Split(in, SplitOptions{TestFraction: 0.5, Seed: 1})
	if len(train) != 1 || len(test) != 0 {
		t.Errorf("单条评分的用户应全部留在训练侧: train=%d test=%d", len(train), len(test))
	}
}
