package handlers

import (
	"github.com/jmoiron/sqlx"

	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

type Deps struct {
	AuthHandler  *AuthHandler
	SweetHandler *SweetHandler
	OrderHandler *OrderHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService, notifier notify.Notifier) *Deps {
	sweetRepo := repos.NewSweetRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(sweetRepo)
	orderSvc := services.NewOrderService(orderRepo, notifier)

	return &Deps{
		AuthHandler:  &AuthHandler{Auth: auth},
		SweetHandler: &SweetHandler{Catalog: catalogSvc},
		OrderHandler: &OrderHandler{Orders: orderSvc},
	}
}
