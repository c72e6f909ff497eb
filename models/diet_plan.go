package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlanStatusPending  = "pending"
	PlanStatusApproved = "approved"
	PlanStatusRejected = "rejected"
)

// DietPlan is one AI-generated daily plan. Goal, budget and restrictions are
// snapshots of the profile at generation time, not live references.
type DietPlan struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID         uint  `gorm:"not null;index" json:"user_id"`
	NutritionistID *uint `gorm:"index" json:"nutritionist_id"`

	Goal                string         `json:"goal"`
	BudgetPerMeal       float64        `json:"budget_per_meal"`
	DietaryRestrictions string         `json:"dietary_restrictions"`
	PlanData            datatypes.JSON `json:"plan_data"`

	Status               string     `gorm:"not null;default:'pending';index" json:"status"`
	NutritionistFeedback string     `json:"nutritionist_feedback"`
	ValidatedAt          *time.Time `json:"validated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
