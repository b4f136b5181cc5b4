package services

import "errors"

var (
	// ErrNotFound - неизвестный slug группы, username или id поста
	ErrNotFound = errors.New("not found")
	// ErrTextRequired - пустой текст поста или комментария
	ErrTextRequired = errors.New("text is required")
	// ErrInvalidImage - загруженный файл не является изображением
	ErrInvalidImage = errors.New("invalid image")
)
