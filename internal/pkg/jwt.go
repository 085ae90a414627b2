package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppJwt 解码后的令牌内容
type AppJwt struct {
	UserID     string
	Expiration time.Time
}

// JWTEncoderDecoder HS512 签名，subject 为用户 id
type JWTEncoderDecoder struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewJWTEncoderDecoder(secret string, lifetime time.Duration) *JWTEncoderDecoder {
	return &JWTEncoderDecoder{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// Encode 生成访问令牌
func (j *JWTEncoderDecoder) Encode(userID string) (AppJwt, string, error) {
	now := j.now()
	exp := now.Add(j.lifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return AppJwt{}, "", err
	}
	// NumericDate 精度为秒
	return AppJwt{UserID: userID, Expiration: exp.Truncate(time.Second)}, signed, nil
}

// Decode 校验签名算法、签名和过期时间
func (j *JWTEncoderDecoder) Decode(tokenStr string) (AppJwt, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AppJwt{}, ErrTokenExpired
		}
		return AppJwt{}, ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return AppJwt{}, ErrTokenInvalid
	}
	return AppJwt{UserID: claims.Subject, Expiration: claims.ExpiresAt.Time}, nil
}
