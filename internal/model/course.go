// Package model はドメインモデルを定義する。
package model

import "time"

// Course はユーザーが所有するコースを表す。
// UserIDは作成時に認証済みユーザーのIDで固定され、以後変更されない。
type Course struct {
	ID              string
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
	UserID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CourseWithOwner はコースと所有者情報をJOINした結果を表す。
// 一覧・詳細取得のレスポンス生成で使用する。
type CourseWithOwner struct {
	Course
	Owner User
}
