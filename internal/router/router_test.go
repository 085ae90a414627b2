package router

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MyHome/internal/config"
	"MyHome/internal/metrics"
	"MyHome/internal/middleware"
	"MyHome/internal/pkg"
	"MyHome/internal/repository/memory"
	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	return newAPIWithLimiter(t, middleware.NewRateLimiter(100, 100, zap.NewNop()))
}

func newAPIWithLimiter(t *testing.T, limiter *middleware.RateLimiter) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	mem := memory.New()
	st := service.Stores{
		Users:       mem.Users(),
		Communities: mem.Communities(),
		Houses:      mem.Houses(),
		Members:     mem.Members(),
		Documents:   mem.Documents(),
		Amenities:   mem.Amenities(),
		Bookings:    mem.Bookings(),
		Payments:    mem.Payments(),
		Tokens:      mem.SecurityTokens(),
		Sessions:    mem.Sessions(),
		Outbox:      mem.Outbox(),
	}
	tokens := service.NewSecurityTokenService(st.Tokens, time.Hour, time.Hour)
	mail := service.NewMailService(&pkg.LogMailer{Log: log}, "http://localhost:8080", log)
	files := config.FilesConfig{MaxSizeKBytes: 64, CompressionBorderKBytes: 1, CompressedImageQuality: 70, MaxImageDimension: 50, MaxImagePixels: 1_000_000}

	r, err := InitRouter(Services{
		Users:       service.NewUserService(st, tokens, mail, log),
		Auth:        service.NewAuthService(st, pkg.NewJWTEncoderDecoder("router-secret", time.Hour), time.Hour),
		Communities: service.NewCommunityService(st),
		Houses:      service.NewHouseService(st),
		Documents:   service.NewDocumentService(st, files, nil),
		Amenities:   service.NewAmenityService(st),
		Bookings:    service.NewBookingService(st),
		Payments:    service.NewPaymentService(st),
	}, Options{
		LoginLimiter: limiter,
		Metrics:      metrics.New(prometheus.NewRegistry()),
		Log:          log,
	})
	require.NoError(t, err)
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *api) upload(method, path, token string, data []byte) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("memberDocument", "photo.png")
	require.NoError(a.t, err)
	_, err = part.Write(data)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// signUpAndLogin 返回用户 id 和 token
func (a *api) signUpAndLogin(name, email string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/users", "", gin.H{"name": name, "email": email, "password": "password"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "password"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return w.Header().Get("userId"), w.Header().Get("token")
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSignUpAndLogin(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/users", "", gin.H{"name": "Ann", "email": "ann@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	user := decode[map[string]any](t, w)
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, false, user["emailConfirmed"])
	assert.NotEmpty(t, user["userId"])

	w = a.do(http.MethodPost, "/users", "", gin.H{"name": "Ann", "email": "ann@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.do(http.MethodPost, "/users", "", gin.H{"name": "Ann", "email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get("token")
	assert.NotEmpty(t, token)
	assert.Equal(t, user["userId"], w.Header().Get("userId"))
	assert.NotEmpty(t, w.Header().Get("expiration"))

	w = a.do(http.MethodGet, "/users/"+w.Header().Get("userId"), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequiresToken(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/users", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/communities", "garbage", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/metrics", "", nil).Code)
}

func TestLoginLimitIgnoresForwardedFor(t *testing.T) {
	a := newAPIWithLimiter(t, middleware.NewRateLimiter(0.001, 2, zap.NewNop()))

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"x@example.com","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:4321"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		a.r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login("198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, login("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, login("198.51.100.3"))
}

func TestInitRouterRejectsBadProxy(t *testing.T) {
	_, err := InitRouter(Services{}, Options{TrustedProxies: []string{"not-an-ip"}, Log: zap.NewNop()})
	assert.Error(t, err)
}

func TestPasswordActions(t *testing.T) {
	a := newAPI(t)
	a.signUpAndLogin("Ann", "ann@example.com")

	w := a.do(http.MethodPost, "/users/password?action=FORGOT", "", gin.H{"email": "ann@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPost, "/users/password?action=FORGOT", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodPost, "/users/password?action=RESET", "", gin.H{"email": "ann@example.com", "token": "bogus", "newPassword": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodPost, "/users/password?action=NOPE", "", gin.H{"email": "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunityAdminAccess(t *testing.T) {
	a := newAPI(t)
	annID, ann := a.signUpAndLogin("Ann", "ann@example.com")
	_, bob := a.signUpAndLogin("Bob", "bob@example.com")

	w := a.do(http.MethodPost, "/communities", ann, gin.H{"name": "Oak Park", "district": "North"})
	require.Equal(t, http.StatusCreated, w.Code)
	community := decode[communityBody](t, w)
	assert.Equal(t, []string{annID}, community.Admins)
	adminsPath := "/communities/" + community.CommunityID + "/admins"

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, adminsPath, bob, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, adminsPath, ann, nil).Code)

	w = a.do(http.MethodPost, "/communities/"+community.CommunityID+"/houses", bob, gin.H{"houses": []gin.H{{"name": "A1"}}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/communities/missing", ann, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/communities/"+community.CommunityID, bob, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/communities/"+community.CommunityID, ann, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/communities/"+community.CommunityID, ann, nil).Code)
}

type communityBody struct {
	CommunityID string   `json:"communityId"`
	Admins      []string `json:"admins"`
}

// seed 创建社区、房屋和住户，返回社区 id 和住户 id
func (a *api) seed(token string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/communities", token, gin.H{"name": "Oak Park", "district": "North"})
	require.Equal(a.t, http.StatusCreated, w.Code)
	communityID := decode[communityBody](a.t, w).CommunityID

	w = a.do(http.MethodPost, "/communities/"+communityID+"/houses", token, gin.H{"houses": []gin.H{{"name": "A1"}}})
	require.Equal(a.t, http.StatusCreated, w.Code)
	houseID := decode[struct {
		Houses []string `json:"houses"`
	}](a.t, w).Houses[0]

	w = a.do(http.MethodPost, "/houses/"+houseID+"/members", token, gin.H{"members": []gin.H{{"name": "Bob"}}})
	require.Equal(a.t, http.StatusCreated, w.Code)
	members := decode[struct {
		Members []struct {
			MemberID string `json:"memberId"`
		} `json:"members"`
	}](a.t, w).Members
	require.Len(a.t, members, 1)
	return communityID, members[0].MemberID
}

func TestMemberDocuments(t *testing.T) {
	a := newAPI(t)
	_, ann := a.signUpAndLogin("Ann", "ann@example.com")
	_, memberID := a.seed(ann)
	path := "/members/" + memberID + "/documents"

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, ann, nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, a.upload(http.MethodPost, path, ann, make([]byte, 65*1024)).Code)
	assert.Equal(t, http.StatusBadRequest, a.upload(http.MethodPost, path, ann, []byte("plain text")).Code)

	photo := noisyPNG(t, 100, 80)
	require.Equal(t, http.StatusNoContent, a.upload(http.MethodPost, path, ann, photo).Code)
	assert.Equal(t, http.StatusConflict, a.upload(http.MethodPost, path, ann, photo).Code)
	assert.Equal(t, http.StatusNoContent, a.upload(http.MethodPut, path, ann, photo).Code)

	w := a.do(http.MethodGet, path, ann, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline; filename=")
	assert.Less(t, w.Body.Len(), len(photo))
	img, _, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, ann, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, ann, nil).Code)
}

func TestBookings(t *testing.T) {
	a := newAPI(t)
	_, ann := a.signUpAndLogin("Ann", "ann@example.com")
	communityID, _ := a.seed(ann)

	w := a.do(http.MethodPost, "/communities/"+communityID+"/amenities", ann,
		gin.H{"amenities": []gin.H{{"name": "Pool", "description": "Outdoor", "price": 10}}})
	require.Equal(t, http.StatusCreated, w.Code)
	amenityID := decode[struct {
		Amenities []struct {
			AmenityID string `json:"amenityId"`
		} `json:"amenities"`
	}](t, w).Amenities[0].AmenityID
	path := "/amenities/" + amenityID + "/bookings"

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	book := func(from, to time.Time) int {
		return a.do(http.MethodPost, path, ann, gin.H{"bookingStartDate": from, "bookingEndDate": to}).Code
	}
	assert.Equal(t, http.StatusCreated, book(start, start.Add(time.Hour)))
	assert.Equal(t, http.StatusConflict, book(start.Add(30*time.Minute), start.Add(2*time.Hour)))
	assert.Equal(t, http.StatusBadRequest, book(start.Add(3*time.Hour), start.Add(2*time.Hour)))
	assert.Equal(t, http.StatusCreated, book(start.Add(time.Hour), start.Add(2*time.Hour)))

	w = a.do(http.MethodGet, path, ann, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["bookings"], 2)
}

func TestSchedulePayment(t *testing.T) {
	a := newAPI(t)
	annID, ann := a.signUpAndLogin("Ann", "ann@example.com")
	bobID, bob := a.signUpAndLogin("Bob", "bob@example.com")
	communityID, memberID := a.seed(ann)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	body := func(adminID string) gin.H {
		return gin.H{"memberId": memberID, "adminId": adminID, "charge": 120.5, "type": "RENT", "dueDate": due}
	}
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/payments", bob, body(bobID)).Code)

	w := a.do(http.MethodPost, "/payments", ann, body(annID))
	require.Equal(t, http.StatusCreated, w.Code)
	paymentID := decode[map[string]any](t, w)["paymentId"].(string)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/payments/"+paymentID, ann, nil).Code)

	w = a.do(http.MethodGet, "/communities/"+communityID+"/payments", ann, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["payments"], 1)

	w = a.do(http.MethodGet, "/communities/"+communityID+"/admins/"+annID+"/payments", ann, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["payments"], 1)
}
