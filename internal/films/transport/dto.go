package transport

import "time"

type CreateFilmRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Director string `json:"director" validate:"max=120"`
	Year     int    `json:"year" validate:"omitempty,filmyear"`
	Genre    string `json:"genre" validate:"max=60"`
}

// UpdateFilmRequest carries a partial update; nil fields are left unchanged.
type UpdateFilmRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Director *string `json:"director,omitempty" validate:"omitempty,max=120"`
	Year     *int    `json:"year,omitempty" validate:"omitempty,filmyear"`
	Genre    *string `json:"genre,omitempty" validate:"omitempty,max=60"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

type ListFilmsRequest struct {
	Page  int
	Genre string
	// BaseURL is used for the next/previous links.
	BaseURL string
}

type CommentOwner struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

type CommentResponse struct {
	Comment string       `json:"comment"`
	Owner   CommentOwner `json:"owner"`
}

type PosterResponse struct {
	URLOriginal string `json:"urlOriginal"`
	URL         string `json:"url"`
	Mimetype    string `json:"mimetype"`
	Size        int64  `json:"size"`
}

type FilmResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Director  string            `json:"director"`
	Year      int               `json:"year"`
	Genre     string            `json:"genre"`
	Owner     string            `json:"owner"`
	Comments  []CommentResponse `json:"comments"`
	Poster    *PosterResponse   `json:"poster,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
