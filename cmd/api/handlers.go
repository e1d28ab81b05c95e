package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"orderkit/pkg/customer"
	"orderkit/pkg/logger"
	"orderkit/pkg/metrics"
	"orderkit/pkg/order"
	"orderkit/pkg/otel"
	"orderkit/pkg/record"
	"orderkit/pkg/session"
)

const maxBodyBytes = 1 << 20

// sessionStore is the subset of session.Store the handlers use.
type sessionStore interface {
	Create(ctx context.Context, user string) (string, error)
	User(ctx context.Context, sid string) (string, error)
	TTL() time.Duration
}

type userKey struct{}

type app struct {
	repo     order.Repository
	sessions sessionStore
	log      *logger.Logger
	metrics  *metrics.Registry
	tracer   trace.Tracer
	newID    func() string
}

func (a *app) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.traceMiddleware)
	r.HandleFunc("/login", a.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	orders := r.PathPrefix("/orders").Subrouter()
	orders.Use(a.authMiddleware)
	orders.HandleFunc("", a.createOrderHandler).Methods(http.MethodPost)
	orders.HandleFunc("", a.listOrdersHandler).Methods(http.MethodGet)
	orders.HandleFunc("/{id}", a.getOrderHandler).Methods(http.MethodGet)

	records := r.PathPrefix("/records").Subrouter()
	records.Use(a.authMiddleware)
	records.HandleFunc("/parse", a.parseRecordsHandler).Methods(http.MethodPost)
	records.HandleFunc("/convert", a.convertRecordsHandler).Methods(http.MethodPost)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates user and sets session cookie
// @Accept json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func (a *app) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	sid, err := a.sessions.Create(ctx, req.Username)
	if err != nil {
		a.log.Error(ctx, "create session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	ttl := a.sessions.TTL()
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", Expires: time.Now().Add(ttl), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func (a *app) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := a.sessions.User(r.Context(), c.Value)
		if errors.Is(err, session.ErrNotFound) {
			a.log.Debug(r.Context(), "session rejected", "error", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err != nil {
			a.log.Error(r.Context(), "load session", "error", err)
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *app) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), a.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type customerRequest struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Subscription string `json:"subscription"`
}

// createOrderRequest is the raw order data accepted by POST /orders.
type createOrderRequest struct {
	ID         string          `json:"id,omitempty"`
	Customer   customerRequest `json:"customer"`
	ProductIDs []string        `json:"productIds"`
}

// createOrderHandler creates a new order.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body createOrderRequest true "Order"
// @Success 201 {object} order.Snapshot
// @Security ApiKeyAuth
// @Router /orders [post]
func (a *app) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var req createOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tier, err := customer.ParseTier(req.Customer.Subscription)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := customer.New(req.Customer.ID, req.Customer.Address, tier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := order.Create(order.RawData{ID: req.ID, Customer: c, ProductIDs: req.ProductIDs})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := o.ID(); !ok {
		o = o.WithID(a.newID())
	}
	id, _ := o.ID()
	span.SetAttributes(attribute.String("order.id", id), attribute.String("order.tier", string(o.Tier())))

	if err := a.repo.Create(ctx, o); err != nil {
		if errors.Is(err, order.ErrDuplicate) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		a.log.Error(ctx, "create order", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.metrics.OrdersCreated.WithLabelValues(string(o.Tier())).Inc()
	user, _ := ctx.Value(userKey{}).(string)
	a.log.Info(ctx, "order created", "id", id, "user", user, "variant", o.Variant(), "delivery_days", o.DeliveryDays())

	writeJSON(w, http.StatusCreated, o)
}

// listOrdersHandler lists orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Snapshot
// @Security ApiKeyAuth
// @Router /orders [get]
func (a *app) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := a.repo.List(ctx)
	if err != nil {
		a.log.Error(ctx, "list orders", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// getOrderHandler retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Snapshot
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (a *app) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	o, err := a.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		a.log.Error(ctx, "get order", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// parseRecordsHandler reads a CSV body into records.
// @Summary Parse CSV
// @Accept plain
// @Produce json
// @Param emptyAsAbsent query bool false "Store empty fields as null"
// @Success 200 {array} object
// @Security ApiKeyAuth
// @Router /records/parse [post]
func (a *app) parseRecordsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "parseRecordsHandler")
	defer span.End()

	var opts []record.ReadOption
	if queryFlag(r, "emptyAsAbsent") {
		opts = append(opts, record.WithEmptyAsAbsent())
	}
	recs, err := record.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), opts...)
	if err != nil {
		a.log.Warn(ctx, "parse records", "error", err)
		http.Error(w, err.Error(), bodyErrorStatus(err))
		return
	}
	a.metrics.RecordsRead.Add(float64(len(recs)))
	writeJSON(w, http.StatusOK, recs)
}

// convertRecordsHandler formats records as CSV lines.
// @Summary Convert records
// @Accept json
// @Produce json
// @Param legacyTrim query bool false "Drop the last character of each line"
// @Success 200 {object} record.Document
// @Security ApiKeyAuth
// @Router /records/convert [post]
func (a *app) convertRecordsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "convertRecordsHandler")
	defer span.End()

	var recs []record.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&recs); err != nil {
		http.Error(w, err.Error(), bodyErrorStatus(err))
		return
	}
	var opts []record.ConvertOption
	if queryFlag(r, "legacyTrim") {
		opts = append(opts, record.WithLegacyTrim())
	}
	doc := record.Convert(recs, opts...)
	a.metrics.DocumentsConverted.Inc()
	writeJSON(w, http.StatusOK, doc)
}

// bodyErrorStatus maps a request body read failure to a status code.
func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func queryFlag(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newOrderID() string { return uuid.NewString() }
