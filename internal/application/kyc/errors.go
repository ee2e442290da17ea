package kyc

import "errors"

var (
	ErrInvalidFullname       = errors.New("Full name may contain only letters, spaces, hyphens, dots and apostrophes")
	ErrInvalidDateOfBirth    = errors.New("Date of birth must be in YYYY-MM-DD format")
	ErrUnderage              = errors.New("You must be at least 18 years old")
	ErrAddressRequired       = errors.New("Address is required")
	ErrInvalidPhone          = errors.New("Invalid phone number")
	ErrInvalidDocumentType   = errors.New("Document type must be aadhaar, pan, passport or driving_license")
	ErrInvalidDocumentNumber = errors.New("Document number does not match the document type")
	ErrInvalidDocumentURL    = errors.New("Document and selfie images must be uploaded first")
	ErrActiveSubmission      = errors.New("A KYC submission is already pending or approved")
	ErrSubmissionNotFound    = errors.New("KYC submission not found")
	ErrAlreadyReviewed       = errors.New("KYC submission has already been reviewed")
	ErrReasonRequired        = errors.New("A rejection reason is required")
)
