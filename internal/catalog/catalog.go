// Package catalog holds the reference data seeded into a fresh database:
// the task-type catalog and the exam-prep checklist.
package catalog

import "github.com/sakif/studyquest/internal/model"

// Categories of the task-type catalog.
const (
	CategoryMainSubjects = "主要科目"
	CategoryExams        = "試験"
	CategoryLifestyle    = "生活習慣"
	CategoryBreaks       = "息抜き"
	CategoryPenalties    = "ペナルティ"
)

// TaskTypes is the seeded catalog. IDs are assigned by the database in this
// order, starting at 1.
func TaskTypes() []model.TaskType {
	return []model.TaskType{
		{Category: CategoryMainSubjects, Name: "英語", Points: 50},
		{Category: CategoryMainSubjects, Name: "数学", Points: 50},
		{Category: CategoryMainSubjects, Name: "国語", Points: 50},
		{Category: CategoryMainSubjects, Name: "理科", Points: 50},
		{Category: CategoryMainSubjects, Name: "社会", Points: 50},
		{Category: CategoryExams, Name: "模試受験", Points: 100},
		{Category: CategoryExams, Name: "過去問演習", Points: 80},
		{Category: CategoryExams, Name: "小テスト", Points: 30},
		{Category: CategoryLifestyle, Name: "早起き", Points: 20},
		{Category: CategoryLifestyle, Name: "7時間睡眠", Points: 20},
		{Category: CategoryLifestyle, Name: "運動", Points: 15},
		{Category: CategoryBreaks, Name: "読書", Points: 10},
		{Category: CategoryBreaks, Name: "散歩", Points: 5},
		{Category: CategoryPenalties, Name: "寝坊", Points: -20},
		{Category: CategoryPenalties, Name: "スマホの使いすぎ", Points: -30},
		{Category: CategoryPenalties, Name: "勉強をサボる", Points: -30},
	}
}

// Checklists is the seeded milestone list, ordered 1 through 8.
func Checklists() []model.Checklist {
	return []model.Checklist{
		{Order: 1, Title: "志望校・学部を決める", Description: "志望理由と併願校も含めて決定する"},
		{Order: 2, Title: "共通テストの出願", Description: "出願書類を揃えて期限までに提出する", Deadline: date("2026-10-09")},
		{Order: 3, Title: "秋の模試を受験する", Description: "本番形式の模試で現状の得点を確認する"},
		{Order: 4, Title: "過去問演習に着手する", Description: "志望校の過去問を最低5年分解く"},
		{Order: 5, Title: "共通テスト本番", Description: "受験票と持ち物を前日までに確認する", Deadline: date("2027-01-16")},
		{Order: 6, Title: "自己採点とリサーチ", Description: "自己採点結果をもとに出願先を最終判断する"},
		{Order: 7, Title: "二次試験の出願", Description: "個別学力検査の出願を済ませる", Deadline: date("2027-02-03")},
		{Order: 8, Title: "二次試験本番", Description: "試験会場と当日の移動経路を確認する", Deadline: date("2027-02-25")},
	}
}

func date(s string) *string { return &s }
