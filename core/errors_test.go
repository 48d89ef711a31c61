package core

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError(ModuleDataset, ErrorCodeSchema, "dataset: missing column userId")

	if err.Error() != "dataset: missing column userId" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsDomainError(err) {
		t.Error("IsDomainError 应为 true")
	}
	if got := GetDomainError(err); got == nil || got.Module != ModuleDataset {
		t.Errorf("GetDomainError = %v", got)
	}
}

func TestErrorCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"SchemaError 命中", NewDomainError(ModuleDataset, ErrorCodeSchema, "x"), IsSchemaError, true},
		{"SchemaError 不命中其他代码", NewDomainError(ModuleModel, ErrorCodeModelVersion, "x"), IsSchemaError, false},
		{"ModelVersion 命中", NewDomainError(ModuleModel, ErrorCodeModelVersion, "x"), IsModelVersionError, true},
		{"NotFound 命中", NewDomainError(ModuleStore, ErrorCodeNotFound, "x"), IsNotFound, true},
		{"NotSupported 命中", NewDomainError(ModuleRecall, ErrorCodeNotSupported, "x"), IsNotSupported, true},
		{"普通 error 不命中", errors.New("x"), IsSchemaError, false},
		{"nil 不命中", nil, IsNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("检查结果 = %v, want %v", got, tt.want)
			}
		})
	}
}
