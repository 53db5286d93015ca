package models

// Form categories accepted by the public registration page.
const (
	FormVendor    = "vendor"
	FormSponsor   = "sponsor"
	FormPerformer = "performer"
	FormVolunteer = "volunteer"
)

// FormTypes lists every accepted category.
var FormTypes = []string{FormVendor, FormSponsor, FormPerformer, FormVolunteer}

// IsFormType reports whether t names a known form category.
func IsFormType(t string) bool {
	for _, ft := range FormTypes {
		if ft == t {
			return true
		}
	}
	return false
}
