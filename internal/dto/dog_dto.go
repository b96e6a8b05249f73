package dto

type CreateDogRequest struct {
	Name          string `json:"name"`
	Breed         string `json:"breed,omitempty"`
	Age           int    `json:"age,omitempty"`
	Weight        int    `json:"weight,omitempty"`
	Temperament   string `json:"temperament,omitempty"`
	TrainingLevel string `json:"trainingLevel,omitempty"`
}

// UpdateDogRequest uses pointers so absent fields are left untouched.
type UpdateDogRequest struct {
	Name          *string `json:"name,omitempty"`
	Breed         *string `json:"breed,omitempty"`
	Age           *int    `json:"age,omitempty"`
	Weight        *int    `json:"weight,omitempty"`
	Temperament   *string `json:"temperament,omitempty"`
	TrainingLevel *string `json:"trainingLevel,omitempty"`
}
