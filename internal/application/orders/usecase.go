package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// TxRunner ejecuta una función con repos de pedidos y productos ligados a una
// misma transacción. La recepción de un pedido incrementa stock línea a línea:
// chequeo de estado e incrementos se confirman o revierten juntos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Reintentos ante colisión del consecutivo diario bajo concurrencia.
const maxNumberRetries = 3

// UseCase pedidos de reposición a proveedores.
type UseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, orderRepo: orderRepo, productRepo: productRepo, log: log}
}

// Create registra un pedido PED-YYYYMMDD-NNNN en estado pendiente.
// La creación no toca el stock; eso ocurre al recibir.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}

	var deliveryDate time.Time
	if in.DeliveryDate != "" {
		var err error
		deliveryDate, err = time.Parse("2006-01-02", in.DeliveryDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar productos y resolver precios de compra fuera de la tx.
	for i := range in.Items {
		item := &in.Items[i]
		if item.Quantity <= 0 || item.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}

	var order *entity.PurchaseOrder
	var lines []*entity.OrderLine

	for attempt := 0; ; attempt++ {
		order, lines = nil, nil
		err := uc.txRunner.RunOrder(ctx, func(
			orderRepo repository.OrderRepository,
			_ repository.ProductRepository,
		) error {
			now := time.Now()
			count, err := orderRepo.CountByDay(now)
			if err != nil {
				return err
			}
			number := fmt.Sprintf("%s-%s-%04d", entity.OrderNumberPrefix, now.Format("20060102"), count+1)

			var total decimal.Decimal
			for _, item := range in.Items {
				total = total.Add(item.PurchasePrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}

			order = &entity.PurchaseOrder{
				ID:           uuid.New().String(),
				Number:       number,
				UserID:       userID,
				Supplier:     in.Supplier,
				DeliveryDate: deliveryDate,
				Total:        total,
				Status:       entity.OrderStatusPending,
				CreatedAt:    now,
			}
			if err := orderRepo.Create(order); err != nil {
				return err
			}
			for _, item := range in.Items {
				line := &entity.OrderLine{
					ID:            uuid.New().String(),
					OrderID:       order.ID,
					ProductID:     item.ProductID,
					Quantity:      item.Quantity,
					PurchasePrice: item.PurchasePrice,
				}
				if err := orderRepo.CreateLine(line); err != nil {
					return err
				}
				lines = append(lines, line)
			}
			return nil
		})

		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicate) && attempt < maxNumberRetries-1 {
			uc.log.Warn().Int("attempt", attempt+1).Msg("colisión de consecutivo de pedido, reintentando")
			continue
		}
		return nil, err
	}

	uc.log.Info().Str("number", order.Number).Str("supplier", order.Supplier).Msg("pedido creado")
	return uc.toResponse(order, "", lines, nil), nil
}

// Receive marca el pedido como recibido e incrementa el stock de cada línea,
// en una sola transacción. La fila del pedido se bloquea (FOR UPDATE): una
// segunda recepción concurrente espera el commit de la primera, ve el estado
// recibido y es rechazada. La recepción nunca se aplica dos veces.
func (uc *UseCase) Receive(ctx context.Context, id string) (*dto.OrderResponse, error) {
	var order *entity.PurchaseOrder
	var lines []*entity.OrderLine

	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		order, err = orderRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusReceived {
			return domain.ErrOrderAlreadyReceived
		}
		if order.Status == entity.OrderStatusCancelled {
			return domain.ErrInvalidInput
		}

		lines, err = orderRepo.GetLinesByOrderID(id)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := productRepo.AdjustStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		order.Status = entity.OrderStatusReceived
		return orderRepo.UpdateStatus(id, entity.OrderStatusReceived)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("number", order.Number).Msg("pedido recibido, stock incrementado")
	return uc.toResponse(order, "", lines, nil), nil
}

// UpdateStatus cambia el estado del pedido sin tocar stock.
// Para marcar recibido se usa Receive; aquí solo transiciones administrativas.
func (uc *UseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	switch in.Status {
	case entity.OrderStatusPending, entity.OrderStatusInProcess, entity.OrderStatusCancelled:
	case entity.OrderStatusReceived:
		return uc.Receive(ctx, id)
	default:
		return nil, domain.ErrInvalidInput
	}

	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OrderStatusReceived {
		return nil, domain.ErrOrderAlreadyReceived
	}

	if err := uc.orderRepo.UpdateStatus(id, in.Status); err != nil {
		return nil, err
	}
	order.Status = in.Status
	return uc.toResponse(order, "", nil, nil), nil
}

// Get obtiene un pedido con sus líneas.
func (uc *UseCase) Get(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.GetLinesByOrderID(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, "", lines, nil), nil
}

// List lista los pedidos con líneas y nombres de producto unidos.
func (uc *UseCase) List() ([]dto.OrderResponse, error) {
	items, err := uc.orderRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *uc.toResponse(&it.Order, it.CashierName, nil, it.Lines))
	}
	return out, nil
}

func (uc *UseCase) toResponse(o *entity.PurchaseOrder, cashierName string, lines []*entity.OrderLine, details []repository.OrderLineDetail) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:          o.ID,
		Number:      o.Number,
		Supplier:    o.Supplier,
		CashierName: cashierName,
		Total:       o.Total,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
	if !o.DeliveryDate.IsZero() {
		resp.DeliveryDate = o.DeliveryDate.Format("2006-01-02")
	}
	for _, l := range lines {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			PurchasePrice: l.PurchasePrice,
		})
	}
	for _, d := range details {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:            d.Line.ID,
			ProductID:     d.Line.ProductID,
			ProductName:   d.ProductName,
			Quantity:      d.Line.Quantity,
			PurchasePrice: d.Line.PurchasePrice,
		})
	}
	return resp
}
