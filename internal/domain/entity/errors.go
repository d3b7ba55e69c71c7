package entity

import "errors"

var (
	// ErrInvalidInput битое или пустое изображение, неположительный размер холста.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecodeFailure кодек не смог разобрать исходное изображение.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrInvalidDetection детекция нарушает контракт сервиса инференса.
	ErrInvalidDetection = errors.New("invalid detection")
)
