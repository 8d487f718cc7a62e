package models

import (
	"slices"
	"time"
)

type (
	ProjectStatus string // Статус проекта
	ProjectView   string // Срез проектов для личного кабинета
)

const (
	OpenProject      ProjectStatus = "open"      // Проект открыт для предложений
	AssignedProject  ProjectStatus = "assigned"  // Исполнитель назначен
	CompletedProject ProjectStatus = "completed" // Работа принята
	RejectedProject  ProjectStatus = "rejected"  // Работа отклонена

	ActiveView   ProjectView = "active"    // Проекты в работе
	FinishedView ProjectView = "completed" // Завершенные проекты
)

// projectTransitions - допустимые переходы статусов проекта.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	OpenProject:      {AssignedProject},
	AssignedProject:  {CompletedProject, RejectedProject},
	CompletedProject: {},
	RejectedProject:  {},
}

// CanTransition проверяет, допустим ли переход в статус next.
func (s ProjectStatus) CanTransition(next ProjectStatus) bool {
	return slices.Contains(projectTransitions[s], next)
}

// IsTerminal сообщает, что из статуса нет переходов.
func (s ProjectStatus) IsTerminal() bool {
	transitions, ok := projectTransitions[s]
	return ok && len(transitions) == 0
}

// Statuses возвращает статусы, входящие в срез. Пустой срез означает ActiveView.
func (v ProjectView) Statuses() ([]ProjectStatus, bool) {
	switch v {
	case "", ActiveView:
		return []ProjectStatus{OpenProject, AssignedProject}, true
	case FinishedView:
		return []ProjectStatus{CompletedProject, RejectedProject}, true
	default:
		return nil, false
	}
}

// Project представляет модель проекта.
type Project struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       int64         `json:"budget"`
	ClientID     int64         `json:"clientId"`
	ContractorID *int64        `json:"contractorId,omitempty"`
	Status       ProjectStatus `json:"status"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// IsParticipant сообщает, является ли пользователь заказчиком или исполнителем проекта.
func (p *Project) IsParticipant(userID int64) bool {
	return p.ClientID == userID || p.IsContractor(userID)
}

// IsContractor сообщает, назначен ли пользователь исполнителем проекта.
func (p *Project) IsContractor(userID int64) bool {
	return p.ContractorID != nil && *p.ContractorID == userID
}

// ContractorProject - проект исполнителя с признаком загруженного результата.
type ContractorProject struct {
	Project
	HasDeliverable bool `json:"hasDeliverable"`
}

// ProjectRequest представляет структуру запроса для создания или изменения проекта.
type ProjectRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Budget      int64      `json:"budget" validate:"gte=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}
