package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultImage is the image of users and pets without uploaded one.
const DefaultImage = "/images/default-user.png"

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleOwner        Role = "owner"
	RoleVeterinarian Role = "veterinarian"
	RoleAdmin        Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func AsRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleVeterinarian, RoleAdmin:
		return r, nil
	default:
		return r, fmt.Errorf("%w: %s", ErrUnknownRole, s)
	}
}

// Recipient identifies a user to be notified.
//
// Admins are owners, so notifications for admins are addressed to RoleOwner.
type Recipient struct {
	Role   Role
	UserId int
}

// Group is the name of the realtime delivery group of the recipient.
func (r Recipient) Group() string {
	switch r.Role {
	case RoleVeterinarian:
		return VeterinarianGroup(r.UserId)
	case RoleAdmin:
		return AdminGroup
	default:
		return OwnerGroup(r.UserId)
	}
}

const AdminGroup = "Admin"

func OwnerGroup(ownerId int) string {
	return fmt.Sprintf("Owner_%d", ownerId)
}

func VeterinarianGroup(vetId int) string {
	return fmt.Sprintf("Vet_%d", vetId)
}

// Principal is an authenticated user.
type Principal struct {
	Role   Role
	UserId int
	Name   string
}

// Recipient of notifications for the principal.
func (p Principal) Recipient() Recipient {
	if p.Role == RoleAdmin {
		return Recipient{Role: RoleOwner, UserId: p.UserId}
	}
	return Recipient{Role: p.Role, UserId: p.UserId}
}

// Groups which the principal listens on.
func (p Principal) Groups() []string {
	switch p.Role {
	case RoleAdmin:
		return []string{AdminGroup, OwnerGroup(p.UserId)}
	case RoleVeterinarian:
		return []string{VeterinarianGroup(p.UserId)}
	default:
		return []string{OwnerGroup(p.UserId)}
	}
}

// Audit is who and when created and updated an entity.
type Audit struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// Profile is the part common to owners and veterinarians.
type Profile struct {
	Img          string
	UserName     string
	Email        string
	PhoneNum     string
	PasswordHash string
	FullName     string
	Dob          *time.Time
	Gender       string
}

type Owner struct {
	Id int
	Profile
	Audit
}

// OwnerSummary is an owner in listings.
type OwnerSummary struct {
	Owner
	PetCount int
}

type OwnerDetail struct {
	Owner
	Pets []PetSummary
}

// Verification tells whether an admin has verified a veterinarian.
//
// Unverified veterinarians cannot log in.
type Verification int

const (
	Unverified Verification = 0
	Verified   Verification = 1
)

func (v Verification) String() string {
	if v == Verified {
		return "verified"
	}
	return "pending"
}

// Clinic is the practice of a veterinarian.
type Clinic struct {
	NameOfConsultingRoom string
	ClinicAddress        string
	Qualification        string
	Experience           string
}

type Veterinarian struct {
	Id int
	Profile
	Clinic
	Verification Verification
	Available    bool
	Audit
}

type VeterinarianDetail struct {
	Veterinarian
	Pets []PetSummary
}
