// Package entity はdialogue機能のドメインエンティティを定義します。
package entity

import (
	"fmt"
	"time"
)

// Flow はユーザーが選んだメニュー項目です。
type Flow string

const (
	FlowHistorical Flow = "historical" // 過去価格チャート
	FlowSMA        Flow = "sma"        // 移動平均分析
	FlowFullData   Flow = "fulldata"   // 直近データ
)

// Step は次に入力を待っている項目です。
type Step string

const (
	StepTicker     Step = "ticker"
	StepStartDate  Step = "start_date"
	StepEndDate    Step = "end_date"
	StepMultiplier Step = "multiplier"
	StepPeriod     Step = "period"
	StepChartType  Step = "chart_type"
)

// SessionKey は対話セッションの識別子です。
type SessionKey struct {
	UserID int64
	ChatID int64
}

// String は "userID:chatID" を返します。
func (k SessionKey) String() string {
	return fmt.Sprintf("%d:%d", k.UserID, k.ChatID)
}

// Session は進行中の対話の状態です。
// 完了・キャンセル・エラーのいずれでも削除され、次のメッセージは新しい対話として扱われます。
type Session struct {
	UserID     int64     `json:"user_id"`
	ChatID     int64     `json:"chat_id"`
	Flow       Flow      `json:"flow"`
	Step       Step      `json:"step"`
	Ticker     string    `json:"ticker,omitempty"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	Multiplier int       `json:"multiplier,omitempty"`
	Timespan   string    `json:"timespan,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Key はセッションの識別子を返します。
func (s *Session) Key() SessionKey {
	return SessionKey{UserID: s.UserID, ChatID: s.ChatID}
}
