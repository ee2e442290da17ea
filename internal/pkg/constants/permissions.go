package constants

const (
	CreateListing    = "create_listing"
	EditListing      = "edit_listing"
	DeleteAnyListing = "delete_any_listing"
	ModerateListings = "moderate_listings"
	SubmitKYC        = "submit_kyc"
	ReviewKYC        = "review_kyc"
	SendMessage      = "send_message"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateListing:    {User, Admin},
	EditListing:      {User, Admin},
	DeleteAnyListing: {Admin},
	ModerateListings: {Admin},
	SubmitKYC:        {User, Admin},
	ReviewKYC:        {Admin},
	SendMessage:      {User, Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
