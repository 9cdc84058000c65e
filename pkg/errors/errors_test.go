package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewLoadError(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		reason   string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			source:   "model.json",
			reason:   "file not readable",
			err:      fmt.Errorf("permission denied"),
			wantMsg:  "xgbgo: failed to load model from model.json: file not readable: permission denied",
			hasStack: true,
		},
		{
			name:     "without original error",
			source:   "buffer",
			reason:   "empty buffer",
			err:      nil,
			wantMsg:  "xgbgo: failed to load model from buffer: empty buffer",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLoadError(tt.source, tt.reason, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			// LoadError型にキャスト可能か確認
			var loadErr *LoadError
			if !As(err, &loadErr) {
				t.Error("Error should be castable to *LoadError")
			}
		})
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewLoadError("model.json", "native rejection", cause)

	if !Is(err, cause) {
		t.Error("LoadError should unwrap to its cause")
	}
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		exp     int
		got     int
		axis    int
		wantMsg string
	}{
		{
			name:    "feature axis",
			op:      "Predict",
			exp:     6,
			got:     5,
			axis:    1,
			wantMsg: "xgbgo: Predict: dimension mismatch on axis 1 (features). Expected 6, got 5",
		},
		{
			name:    "row axis",
			op:      "Predict",
			exp:     2,
			got:     0,
			axis:    0,
			wantMsg: "xgbgo: Predict: dimension mismatch on axis 0 (rows). Expected 2, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError(tt.op, tt.exp, tt.got, tt.axis)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Error("Error should be castable to *DimensionError")
			}
			if dimErr.Expected != tt.exp || dimErr.Got != tt.got {
				t.Errorf("fields = (%d, %d), want (%d, %d)", dimErr.Expected, dimErr.Got, tt.exp, tt.got)
			}
		})
	}
}

func TestNewNativeError(t *testing.T) {
	err := NewNativeError("XGBoosterPredict", "Invalid DMatrix")

	want := "xgbgo: XGBoosterPredict failed: Invalid DMatrix"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var nativeErr *NativeError
	if !As(err, &nativeErr) {
		t.Fatal("Error should be castable to *NativeError")
	}
	// ネイティブ診断文字列がそのまま保持されているか確認
	if nativeErr.Message != "Invalid DMatrix" {
		t.Errorf("Message = %q, want native diagnostic verbatim", nativeErr.Message)
	}
}

func TestNewStateError(t *testing.T) {
	err := NewStateError("Predict", "released")

	want := "xgbgo: Predict: booster is released. Operations require a loaded handle"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var stateErr *StateError
	if !As(err, &stateErr) {
		t.Error("Error should be castable to *StateError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("optionMask", "unknown option bits", 0x40)

	if !strings.Contains(err.Error(), "optionMask") {
		t.Errorf("Error() should mention parameter name, got %v", err.Error())
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.Value != 0x40 {
		t.Errorf("Value = %v, want 0x40", valErr.Value)
	}
}
