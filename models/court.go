package models

type Court struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Area    string `json:"area"`
	Surface string `json:"surface"`
	Lights  bool   `json:"lights"`
}
