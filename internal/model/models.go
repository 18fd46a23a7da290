package model

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived}

type TaskStatus string

const (
	TaskBacklog    TaskStatus = "backlog"
	TaskThisWeek   TaskStatus = "this-week"
	TaskInProgress TaskStatus = "in-progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

// TaskStatuses is the kanban column order.
var TaskStatuses = []TaskStatus{TaskBacklog, TaskThisWeek, TaskInProgress, TaskBlocked, TaskDone}

type Category string

const (
	CategoryBuild    Category = "build"
	CategoryDeploy   Category = "deploy"
	CategoryMeeting  Category = "meeting"
	CategoryResearch Category = "research"
	CategorySupport  Category = "support"
	CategoryOther    Category = "other"
)

var Categories = []Category{CategoryBuild, CategoryDeploy, CategoryMeeting, CategoryResearch, CategorySupport, CategoryOther}

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Priority    int           `json:"priority"`
	Tags        []string      `json:"tags"`
	Color       string        `json:"color"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId"`
	Status      TaskStatus `json:"status"`
	BlockerNote string     `json:"blockerNote,omitempty"`
	Priority    int        `json:"priority"`
	DueDate     string     `json:"dueDate,omitempty"` // YYYY-MM-DD
	Tags        []string   `json:"tags"`
	SortOrder   float64    `json:"sortOrder"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Activity struct {
	ID        string     `json:"id"`
	Entry     string     `json:"entry"`
	ProjectID string     `json:"projectId,omitempty"`
	TaskID    string     `json:"taskId,omitempty"`
	Category  Category   `json:"category"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Tags      []string   `json:"tags"`
	Timestamp time.Time  `json:"timestamp"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Metric holds the time-saved inputs for one project's automation.
type Metric struct {
	ID                 string    `json:"id"`
	ProjectID          string    `json:"projectId"`
	HoursToRun         float64   `json:"hoursToRun"` // manual hours per execution
	RunsPerWeek        float64   `json:"runsPerWeek"`
	RunDurationMinutes float64   `json:"runDurationMinutes"` // automated minutes per execution
	HoursToBuild       float64   `json:"hoursToBuild"`
	PeopleImpacted     int       `json:"peopleImpacted"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type WeeklySnapshot struct {
	ID         string    `json:"id"`
	WeekStart  string    `json:"weekStart"`
	WeekEnd    string    `json:"weekEnd"`
	Completed  []string  `json:"completed"`
	InProgress []string  `json:"inProgress"`
	NewTasks   []string  `json:"newTasks"`
	Stuck      []string  `json:"stuck"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Settings struct {
	Theme              string `json:"theme"`
	UserName           string `json:"userName"`
	JobTitle           string `json:"jobTitle"`
	BossName           string `json:"bossName"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	DefaultView        string `json:"defaultView"`
	Streak             int    `json:"streak"`
	LongestStreak      int    `json:"longestStreak"`
	LastActiveDate     string `json:"lastActiveDate"`
	Karma              int    `json:"karma"`
	KarmaLevel         string `json:"karmaLevel"`
}

// Data is the whole record store, persisted as a single JSON document.
type Data struct {
	Projects        []Project        `json:"projects"`
	Tasks           []Task           `json:"tasks"`
	Activities      []Activity       `json:"activities"`
	Metrics         []Metric         `json:"metrics"`
	WeeklySnapshots []WeeklySnapshot `json:"weeklySnapshots"`
	Settings        Settings         `json:"settings"`
}
