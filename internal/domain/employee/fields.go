package employee

import "staffhub/internal/domain/auth"

// FilterProfileFields strips what the viewer is not entitled to see. Admin
// and HR see everything; an employee sees their own full profile but only
// directory-level fields of anyone else.
func FilterProfileFields(p *Profile, viewer auth.Identity, isSelf bool) {
	if viewer.Role.Elevated() || isSelf {
		return
	}
	p.Salary = nil
	p.Phone = ""
	p.Address = ""
	p.Emergency = EmergencyContact{}
	p.Documents = nil
}
