package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id is unknown or expired.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOptionIndex indicates the selected option is out of range.
	ErrInvalidOptionIndex = errors.New("invalid option index")
	// ErrNotPDF is returned when the uploaded file is not a PDF.
	ErrNotPDF = errors.New("only PDF files are supported")
	// ErrNoText is returned when no usable text could be extracted.
	ErrNoText = errors.New("could not extract text from PDF")
)
