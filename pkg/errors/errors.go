// Package errors はxgbgo全体のエラーハンドリングを提供します。
// ネイティブライブラリ（XGBoost C API）の整数ステータスコードを、
// 構造化された型付きエラーへ変換するための型を定義します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// LibraryError はネイティブライブラリ自体が利用できない場合のエラーです。
// 共有ライブラリが見つからない、ロードできない、といった起動時の致命的な
// 状態を表します。
type LibraryError struct {
	Reason string
}

func (e *LibraryError) Error() string {
	return fmt.Sprintf("xgbgo: native library unavailable: %s", e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LibraryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("reason", e.Reason).
		Str("type", "LibraryError")
}

// NewLibraryError は新しいLibraryErrorを作成し、スタックトレースを付与します。
func NewLibraryError(reason string) error {
	err := &LibraryError{Reason: reason}
	return errors.WithStack(err)
}

// LoadError はモデルのロードに失敗した場合のエラーです。
// ファイルが存在しない、読み込めない、またはネイティブライブラリが
// フォーマットを拒否した場合に発生します。
type LoadError struct {
	Source string // ファイルパス、または "buffer"
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xgbgo: failed to load model from %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("xgbgo: failed to load model from %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("reason", e.Reason).
		Str("type", "LoadError")
}

// NewLoadError は新しいLoadErrorを作成し、スタックトレースを付与します。
func NewLoadError(source, reason string, err error) error {
	loadErr := &LoadError{Source: source, Reason: reason, Err: err}
	return errors.WithStack(loadErr)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
// ネイティブ境界を越える前に検出され、ネイティブ呼び出しは行われません。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("xgbgo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 不正なオプションマスクや非正の行数・列数などを表します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("xgbgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// NativeError はネイティブライブラリが非ゼロのステータスを返した場合のエラーです。
// Messageにはネイティブライブラリ自身の診断文字列がそのまま格納されます。
type NativeError struct {
	Call    string // 失敗したC API関数名（例: "XGBoosterPredict"）
	Message string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("xgbgo: %s failed: %s", e.Call, e.Message)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NativeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("call", e.Call).
		Str("message", e.Message).
		Str("type", "NativeError")
}

// NewNativeError は新しいNativeErrorを作成し、スタックトレースを付与します。
func NewNativeError(call, message string) error {
	err := &NativeError{Call: call, Message: message}
	return errors.WithStack(err)
}

// StateError は解放済みハンドルに対する操作など、不正な状態での呼び出しを
// 表すエラーです。ネイティブコードへ再入する前に検出されます。
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("xgbgo: %s: booster is %s. Operations require a loaded handle", e.Op, e.State)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *StateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("state", e.State).
		Str("type", "StateError")
}

// NewStateError は新しいStateErrorを作成し、スタックトレースを付与します。
func NewStateError(op, state string) error {
	err := &StateError{Op: op, State: state}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
