package sandbox

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/openmenu/riderapp/internal/domain/model"
)

const riderIDContextKey = "riderID"

// Router builds the gin engine exposing the rider API surface plus the
// /sim endpoints used to drive kitchen-side progress.
func (s *Sandbox) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	rider := engine.Group("/rider")
	rider.POST("/login", s.handleLogin)

	authed := rider.Group("")
	authed.Use(s.authRequired())
	authed.POST("/logout", s.handleLogout)
	authed.GET("/me", s.handleProfile)
	authed.PUT("/profile", s.handleUpdateProfile)
	authed.GET("/orders", s.handleOrders)
	authed.GET("/orders/:id", s.handleOrderDetails)
	authed.PUT("/orders/:id/status", s.handleUpdateStatus)
	authed.POST("/orders/:id/delivery-confirmation", s.handleDeliveryConfirmation)
	authed.GET("/notifications", s.handleNotifications)
	authed.PUT("/notifications/:id/read", s.handleMarkNotificationRead)
	authed.POST("/location", s.handleLocation)
	authed.GET("/earnings", s.handleEarnings)
	authed.GET("/performance", s.handlePerformance)

	sim := engine.Group("/sim")
	sim.POST("/orders/:id/advance", s.handleAdvance)

	return engine
}

func (s *Sandbox) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}
		token := strings.TrimSpace(header[7:])
		riderID, ok := s.riderForToken(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}
		c.Set(riderIDContextKey, riderID)
		c.Set("token", token)
		c.Next()
	}
}

func currentRiderID(c *gin.Context) int64 {
	return c.GetInt64(riderIDContextKey)
}

func (s *Sandbox) handleLogin(c *gin.Context) {
	var body struct {
		Phone      string `json:"phone"`
		Password   string `json:"password"`
		DeviceName string `json:"device_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "malformed request"})
		return
	}

	rider, token, ok := s.authenticate(body.Phone, body.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "rider": rider})
}

func (s *Sandbox) handleLogout(c *gin.Context) {
	s.revoke(c.GetString("token"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Sandbox) handleProfile(c *gin.Context) {
	s.mu.RLock()
	account := s.riders[currentRiderID(c)]
	s.mu.RUnlock()
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "rider not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": account.rider})
}

func (s *Sandbox) handleUpdateProfile(c *gin.Context) {
	var body struct {
		Name                      string `json:"name"`
		Address                   string `json:"address"`
		VehicleType               string `json:"vehicle_type"`
		VehicleRegistrationNumber string `json:"vehicle_registration_number"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	s.mu.Lock()
	account := s.riders[currentRiderID(c)]
	if account == nil {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "rider not found"})
		return
	}
	if body.Name != "" {
		account.rider.Name = body.Name
	}
	if body.Address != "" {
		account.rider.Address = body.Address
	}
	if body.VehicleType != "" {
		account.rider.VehicleType = model.VehicleType(body.VehicleType)
	}
	if body.VehicleRegistrationNumber != "" {
		account.rider.VehicleRegistrationNumber = body.VehicleRegistrationNumber
	}
	account.rider.UpdatedAt = time.Now()
	rider := account.rider
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"data": rider})
}

func (s *Sandbox) handleOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.ridersOrders(currentRiderID(c))})
}

func (s *Sandbox) handleOrderDetails(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	s.mu.RLock()
	order, ok := s.orders[orderID]
	owned := ok && s.orderRider[orderID] == currentRiderID(c)
	var copied model.Order
	if owned {
		copied = *order
	}
	s.mu.RUnlock()

	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": copied})
}

func (s *Sandbox) handleUpdateStatus(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	var body struct {
		Status           string `json:"status"`
		Reason           string `json:"reason"`
		DeliveryPasscode string `json:"delivery_passcode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	target, err := model.ParseOrderStatus(body.Status)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid order status"})
		return
	}

	code, message := s.transition(currentRiderID(c), orderID, target, body.Reason, body.DeliveryPasscode)
	if code != http.StatusOK {
		c.JSON(code, gin.H{"message": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Sandbox) handleDeliveryConfirmation(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	var body struct {
		DeliveryPasscode string `json:"delivery_passcode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	code, message := s.transition(currentRiderID(c), orderID, model.OrderStatusDelivered, "", body.DeliveryPasscode)
	if code != http.StatusOK {
		c.JSON(code, gin.H{"message": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Sandbox) handleNotifications(c *gin.Context) {
	s.mu.RLock()
	notifications := append([]model.Notification(nil), s.notifications[currentRiderID(c)]...)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (s *Sandbox) handleMarkNotificationRead(c *gin.Context) {
	notificationID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid notification id"})
		return
	}

	now := time.Now()
	s.mu.Lock()
	list := s.notifications[currentRiderID(c)]
	found := false
	for i := range list {
		if list[i].ID == notificationID {
			if list[i].ReadAt == nil {
				list[i].ReadAt = &now
			}
			found = true
		}
	}
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Sandbox) handleLocation(c *gin.Context) {
	var body model.Location
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Sandbox) handleEarnings(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")

	riderID := currentRiderID(c)
	s.mu.RLock()
	deliveries := 0
	var total float64
	for id, order := range s.orders {
		if s.orderRider[id] == riderID && order.Status == model.OrderStatusDelivered {
			deliveries++
			total += order.DeliveryFee
		}
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"data": model.Earnings{
		Period:          period,
		TotalDeliveries: deliveries,
		TotalEarnings:   total,
	}})
}

func (s *Sandbox) handlePerformance(c *gin.Context) {
	riderID := currentRiderID(c)
	s.mu.RLock()
	delivered, cancelled := 0, 0
	for id, order := range s.orders {
		if s.orderRider[id] != riderID {
			continue
		}
		switch order.Status {
		case model.OrderStatusDelivered:
			delivered++
		case model.OrderStatusCancelled:
			cancelled++
		}
	}
	s.mu.RUnlock()

	rate := 1.0
	if completed := delivered + cancelled; completed > 0 {
		rate = float64(delivered) / float64(completed)
	}
	c.JSON(http.StatusOK, gin.H{"data": model.Performance{
		TotalDeliveries: delivered,
		CancelledOrders: cancelled,
		CompletionRate:  rate,
	}})
}

func (s *Sandbox) handleAdvance(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	status, ok := s.advance(orderID)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "order has no kitchen-side step left"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
