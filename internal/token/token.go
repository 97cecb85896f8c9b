package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const purposePhoneVerified = "phone_verified"

var ErrInvalid = errors.New("invalid token")

type Issuer struct {
	secret   []byte
	ownerTTL time.Duration
	phoneTTL time.Duration
	now      func() time.Time
}

func NewIssuer(secret string, ownerTTL, phoneTTL time.Duration) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		ownerTTL: ownerTTL,
		phoneTTL: phoneTTL,
		now:      time.Now,
	}
}

type OwnerClaims struct {
	UserID     uint
	BusinessID uint
	Role       string
}

type PhoneClaims struct {
	Phone      string
	BusinessID uint
}

func (i *Issuer) sign(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := i.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

func (i *Issuer) parse(raw string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !t.Valid {
		return nil, ErrInvalid
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}
	return claims, nil
}

// IssueOwner gera o token de sessão do dono/admin.
func (i *Issuer) IssueOwner(c OwnerClaims) (string, error) {
	return i.sign(jwt.MapClaims{
		"sub":        c.UserID,
		"businessId": c.BusinessID,
		"role":       c.Role,
	}, i.ownerTTL)
}

func (i *Issuer) ParseOwner(raw string) (OwnerClaims, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return OwnerClaims{}, err
	}

	sub, ok1 := claims["sub"].(float64)
	businessID, ok2 := claims["businessId"].(float64)
	role, _ := claims["role"].(string)
	if !ok1 || !ok2 {
		return OwnerClaims{}, ErrInvalid
	}
	if p, _ := claims["purpose"].(string); p != "" {
		return OwnerClaims{}, ErrInvalid
	}

	return OwnerClaims{UserID: uint(sub), BusinessID: uint(businessID), Role: role}, nil
}

// IssuePhone prova que o telefone passou pela verificação OTP.
func (i *Issuer) IssuePhone(c PhoneClaims) (string, error) {
	return i.sign(jwt.MapClaims{
		"sub":        c.Phone,
		"businessId": c.BusinessID,
		"purpose":    purposePhoneVerified,
	}, i.phoneTTL)
}

func (i *Issuer) ParsePhone(raw string) (PhoneClaims, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return PhoneClaims{}, err
	}

	if p, _ := claims["purpose"].(string); p != purposePhoneVerified {
		return PhoneClaims{}, ErrInvalid
	}
	phone, ok1 := claims["sub"].(string)
	businessID, ok2 := claims["businessId"].(float64)
	if !ok1 || !ok2 || phone == "" {
		return PhoneClaims{}, ErrInvalid
	}

	return PhoneClaims{Phone: phone, BusinessID: uint(businessID)}, nil
}
