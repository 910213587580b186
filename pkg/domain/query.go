package domain

// OwnerSort is the order of owner listings.
type OwnerSort string

const (
	OwnerByNameAsc  OwnerSort = "name_asc"
	OwnerByNameDesc OwnerSort = "name_desc"
	OwnerByDateAsc  OwnerSort = "date_asc"
	OwnerByDateDesc OwnerSort = "date_desc"
	OwnerByPetsAsc  OwnerSort = "pets_asc"
	OwnerByPetsDesc OwnerSort = "pets_desc"
)

const DefaultOwnerSort = OwnerByNameAsc

// AsOwnerSort parses s. Unknown values are DefaultOwnerSort.
func AsOwnerSort(s string) OwnerSort {
	switch o := OwnerSort(s); o {
	case OwnerByNameAsc, OwnerByNameDesc, OwnerByDateAsc, OwnerByDateDesc, OwnerByPetsAsc, OwnerByPetsDesc:
		return o
	default:
		return DefaultOwnerSort
	}
}

type OwnerQuery struct {
	// Search is matched case-insensitively with username, fullname, email, phone number and gender.
	Search string
	Sort   OwnerSort
	Page   int
}

type VeterinarianQuery struct {
	Search       string
	VerifiedOnly bool
}

type PetQuery struct {
	Search  string
	OwnerId int
	VetId   int
}
