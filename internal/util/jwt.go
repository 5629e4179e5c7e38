package util

import (
	"stareduca_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 会话令牌载荷，Subject 为学生ID
type Claims struct {
	ExternalID string `json:"external_id"`
	FirstName  string `json:"first_name"`
	FamilyID   string `json:"family_id,omitempty"`
	Dev        bool   `json:"dev,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWT(student *model.Student, dev bool, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		ExternalID: student.ExternalID,
		FirstName:  student.FirstName,
		FamilyID:   student.FamilyID,
		Dev:        dev,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   student.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetStudentFromContext(c *gin.Context) *Claims {
	student, exists := c.Get("student")
	if !exists {
		return nil
	}
	claims, ok := student.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
