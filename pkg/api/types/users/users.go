package users

import (
	"github.com/opst/vettracker/pkg/api/types/misc"
	"github.com/opst/vettracker/pkg/api/types/pets"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/utils"
)

// Profile is common to owners and veterinarians. Passwords are never included.
type Profile struct {
	Img      string  `json:"img"`
	UserName string  `json:"userName"`
	Email    string  `json:"email"`
	PhoneNum string  `json:"phoneNum"`
	FullName string  `json:"fullName"`
	Dob      *string `json:"dob,omitempty"`
	Gender   string  `json:"gender"`
}

type Owner struct {
	Id int `json:"id"`
	Profile
	misc.Audit
}

type OwnerSummary struct {
	Owner
	PetCount int `json:"petCount"`
}

type OwnerDetail struct {
	Owner
	Pets []pets.Pet `json:"pets"`
}

// OwnerPage is a page of owners with the query making it.
type OwnerPage struct {
	misc.Page[OwnerSummary]
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

type Veterinarian struct {
	Id int `json:"id"`
	Profile
	NameOfConsultingRoom string `json:"nameOfConsultingRoom"`
	ClinicAddress        string `json:"clinicAddress"`
	Qualification        string `json:"qualification"`
	Experience           string `json:"experience"`

	// Verification is 0 (pending) or 1 (verified).
	Verification int  `json:"verification"`
	Verified     bool `json:"verified"`
	Available    bool `json:"isAvailable"`
	misc.Audit
}

type VeterinarianDetail struct {
	Veterinarian
	Pets []pets.Pet `json:"pets"`
}

// VerifiedVeterinarian is a veterinarian listed publicly.
type VerifiedVeterinarian struct {
	Id                   int    `json:"id"`
	Img                  string `json:"img"`
	FullName             string `json:"fullName"`
	Qualification        string `json:"qualification"`
	Experience           string `json:"experience"`
	NameOfConsultingRoom string `json:"nameOfConsultingRoom"`
	ClinicAddress        string `json:"clinicAddress"`
	Available            bool   `json:"isAvailable"`
}

func ComposeProfile(p domain.Profile) Profile {
	return Profile{
		Img:      p.Img,
		UserName: p.UserName,
		Email:    p.Email,
		PhoneNum: p.PhoneNum,
		FullName: p.FullName,
		Dob:      misc.ComposeDate(p.Dob),
		Gender:   p.Gender,
	}
}

func ComposeOwner(o domain.Owner) Owner {
	return Owner{Id: o.Id, Profile: ComposeProfile(o.Profile), Audit: misc.ComposeAudit(o.Audit)}
}

func ComposeOwnerSummary(o domain.OwnerSummary) OwnerSummary {
	return OwnerSummary{Owner: ComposeOwner(o.Owner), PetCount: o.PetCount}
}

func ComposeOwnerDetail(o domain.OwnerDetail) OwnerDetail {
	return OwnerDetail{Owner: ComposeOwner(o.Owner), Pets: utils.Map(o.Pets, pets.Compose)}
}

func ComposeOwnerPage(p domain.Paged[domain.OwnerSummary], q domain.OwnerQuery) OwnerPage {
	return OwnerPage{
		Page:   misc.ComposePage(p, ComposeOwnerSummary),
		Search: q.Search,
		Sort:   string(q.Sort),
	}
}

func ComposeVeterinarian(v domain.Veterinarian) Veterinarian {
	return Veterinarian{
		Id:                   v.Id,
		Profile:              ComposeProfile(v.Profile),
		NameOfConsultingRoom: v.NameOfConsultingRoom,
		ClinicAddress:        v.ClinicAddress,
		Qualification:        v.Qualification,
		Experience:           v.Experience,
		Verification:         int(v.Verification),
		Verified:             v.Verification == domain.Verified,
		Available:            v.Available,
		Audit:                misc.ComposeAudit(v.Audit),
	}
}

func ComposeVeterinarianDetail(v domain.VeterinarianDetail) VeterinarianDetail {
	return VeterinarianDetail{
		Veterinarian: ComposeVeterinarian(v.Veterinarian),
		Pets:         utils.Map(v.Pets, pets.Compose),
	}
}

func ComposeVerified(v domain.Veterinarian) VerifiedVeterinarian {
	return VerifiedVeterinarian{
		Id:                   v.Id,
		Img:                  v.Img,
		FullName:             v.FullName,
		Qualification:        v.Qualification,
		Experience:           v.Experience,
		NameOfConsultingRoom: v.NameOfConsultingRoom,
		ClinicAddress:        v.ClinicAddress,
		Available:            v.Available,
	}
}
