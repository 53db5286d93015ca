package models

import "time"

// DefaultStatus is the status of a freshly submitted application.
const DefaultStatus = "pending"

// Submission is one applicant's registration form entry.
type Submission struct {
	ID                  string    `json:"_id" bson:"-"`
	FormType            string    `json:"formType" bson:"formType"`
	Name                string    `json:"name" bson:"name"`
	Phone               string    `json:"phone" bson:"phone"`
	Email               string    `json:"email" bson:"email"`
	Category            string    `json:"category" bson:"category"`
	Details             string    `json:"details" bson:"details"`
	BrandName           string    `json:"brandName" bson:"brandName"`
	StallType           string    `json:"stallType" bson:"stallType"`
	CompanyName         string    `json:"companyName" bson:"companyName"`
	SponsorshipLevel    string    `json:"sponsorshipLevel" bson:"sponsorshipLevel"`
	PerformanceCategory string    `json:"performanceCategory" bson:"performanceCategory"`
	HelpType            string    `json:"helpType" bson:"helpType"`
	CustomIdea          string    `json:"customIdea" bson:"customIdea"`
	Status              string    `json:"status" bson:"status"`
	SubmittedAt         time.Time `json:"submittedAt" bson:"submittedAt"`
}

// SubmissionInput is the public form payload. Keys outside this set are
// dropped on decode.
type SubmissionInput struct {
	FormType            string `json:"formType" validate:"required,formtype"`
	Name                string `json:"name" validate:"required,max=200"`
	Phone               string `json:"phone" validate:"required,max=32"`
	Email               string `json:"email" validate:"omitempty,email,max=254"`
	Category            string `json:"category" validate:"max=200"`
	Details             string `json:"details" validate:"max=5000"`
	BrandName           string `json:"brandName" validate:"max=200"`
	StallType           string `json:"stallType" validate:"max=200"`
	CompanyName         string `json:"companyName" validate:"max=200"`
	SponsorshipLevel    string `json:"sponsorshipLevel" validate:"max=200"`
	PerformanceCategory string `json:"performanceCategory" validate:"max=200"`
	HelpType            string `json:"helpType" validate:"max=200"`
	CustomIdea          string `json:"customIdea" validate:"max=2000"`
}

// ToSubmission applies the record defaults.
func (in SubmissionInput) ToSubmission(now time.Time) *Submission {
	return &Submission{
		FormType:            in.FormType,
		Name:                in.Name,
		Phone:               in.Phone,
		Email:               in.Email,
		Category:            in.Category,
		Details:             in.Details,
		BrandName:           in.BrandName,
		StallType:           in.StallType,
		CompanyName:         in.CompanyName,
		SponsorshipLevel:    in.SponsorshipLevel,
		PerformanceCategory: in.PerformanceCategory,
		HelpType:            in.HelpType,
		CustomIdea:          in.CustomIdea,
		Status:              DefaultStatus,
		SubmittedAt:         now,
	}
}

// SubmissionStats summarizes stored submissions for the admin dashboard.
type SubmissionStats struct {
	Total      int            `json:"total"`
	ByFormType map[string]int `json:"byFormType"`
	ByStatus   map[string]int `json:"byStatus"`
}
