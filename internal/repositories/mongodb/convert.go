package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/powerplay-sports/booking-service/internal/models"
)

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func stringOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func userFromDoc(doc bson.M) *models.User {
	return &models.User{
		ID:      idString(doc[models.FieldID]),
		Email:   stringOf(doc[models.FieldEmail]),
		Role:    models.Role(stringOf(doc[models.FieldRole])),
		Profile: models.Document(doc).Without(models.FieldID, models.FieldEmail, models.FieldRole),
	}
}

func userToDoc(u *models.User) bson.M {
	doc := bson.M{}
	for k, v := range u.Profile.Without(models.FieldID, models.FieldEmail, models.FieldRole) {
		doc[k] = v
	}
	doc[models.FieldEmail] = u.Email
	if u.Role != "" {
		doc[models.FieldRole] = string(u.Role)
	}
	return doc
}

func classFromDoc(doc bson.M) *models.Class {
	return &models.Class{
		ID:         idString(doc[models.FieldID]),
		Students:   models.ToInt64(doc[models.FieldStudents]),
		Attributes: models.Document(doc).Without(models.FieldID),
	}
}

func instructorFromDoc(doc bson.M) *models.Instructor {
	return &models.Instructor{
		ID:         idString(doc[models.FieldID]),
		Students:   models.ToInt64(doc[models.FieldStudents]),
		Attributes: models.Document(doc).Without(models.FieldID),
	}
}

func reviewFromDoc(doc bson.M) *models.Review {
	return &models.Review{
		ID:         idString(doc[models.FieldID]),
		Attributes: models.Document(doc).Without(models.FieldID),
	}
}

func submissionToDoc(s *models.ClassSubmission) bson.M {
	doc := bson.M{}
	for k, v := range s.Attributes.Without(models.FieldID, models.FieldStudents, models.FieldStatus) {
		doc[k] = v
	}
	doc[models.FieldStudents] = s.Students
	doc[models.FieldStatus] = string(s.Status)
	return doc
}
