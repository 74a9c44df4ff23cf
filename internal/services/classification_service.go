package services

import (
	"mime/multipart"
	"pest_marketplace/pkg/classifier"
)

type ClassificationService interface {
	ClassifyImage(file *multipart.FileHeader) (*classifier.Prediction, error)
}

type classificationService struct {
	client *classifier.Client
}

func NewClassificationService(client *classifier.Client) ClassificationService {
	return &classificationService{client: client}
}

func (s *classificationService) ClassifyImage(file *multipart.FileHeader) (*classifier.Prediction, error) {
	return s.client.Classify(file)
}
