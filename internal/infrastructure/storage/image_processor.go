package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxImageSize = 5 * 1024 * 1024  // 5MB
	DefaultMaxPDFSize   = 50 * 1024 * 1024 // 50MB

	CoverMaxDimension = 1200
	AvatarSize        = 300

	ContentTypeJPEG = "image/jpeg"
	ContentTypePDF  = "application/pdf"
)

var (
	ErrImageTooLarge   = errors.New("image too large")
	ErrNotAnImage      = errors.New("not an image")
	ErrImageFormat     = errors.New("image format not allowed")
	ErrPDFTooLarge     = errors.New("pdf too large")
	ErrNotAPDF         = errors.New("not a pdf document")
	allowedImageFormat = map[string]bool{"jpeg": true, "png": true, "gif": true}
)

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: DefaultMaxImageSize}
}

// ValidateImage checks size and that the data decodes as JPEG, PNG or GIF.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: exceeds %dMB", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if !allowedImageFormat[format] {
		return fmt.Errorf("%w: %s (only jpeg/png/gif)", ErrImageFormat, format)
	}
	return nil
}

// NormalizeCover shrinks the image to fit CoverMaxDimension (never enlarges) and re-encodes it as JPEG.
func (p *ImageProcessor) NormalizeCover(data []byte) ([]byte, error) {
	img, err := p.decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > CoverMaxDimension || bounds.Dy() > CoverMaxDimension {
		img = imaging.Fit(img, CoverMaxDimension, CoverMaxDimension, imaging.Lanczos)
	}
	return encodeJPEG(img)
}

// Avatar center-crops to an AvatarSize square.
func (p *ImageProcessor) Avatar(data []byte) ([]byte, error) {
	img, err := p.decode(data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos))
}

func (p *ImageProcessor) decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return img, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}
	return b.Bytes(), nil
}

// ValidatePDF checks the size limit and the %PDF magic header.
func ValidatePDF(data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxPDFSize
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%w: exceeds %dMB", ErrPDFTooLarge, maxSize/(1024*1024))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return ErrNotAPDF
	}
	return nil
}
