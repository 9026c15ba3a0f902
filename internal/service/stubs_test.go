package service

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs for the repository interfaces. DB() returns nil so
// runTx invokes the transaction body directly without a live database.

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ── Product ───────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	for _, existing := range r.products {
		if existing.Code == p.Code || existing.Name == p.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	for _, p := range r.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) NameExists(ctx context.Context, name string) (bool, error) {
	for _, p := range r.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(ctx context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

type stubStockRepo struct {
	stocks    map[uuid.UUID]*model.Stock
	movements []model.StockMovement
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stocks: make(map[uuid.UUID]*model.Stock)}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Stock) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stocks[s.ProductID] = s
	return nil
}

func (r *stubStockRepo) FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Stock, error) {
	return r.FindByProductIDTx(nil, productID)
}

func (r *stubStockRepo) FindByProductIDTx(tx *gorm.DB, productID uuid.UUID) (*model.Stock, error) {
	s, ok := r.stocks[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Return a snapshot, as a real SELECT would; callers must not observe
	// later mutations of the stored row through this pointer.
	cp := *s
	return &cp, nil
}

// ReserveTx mimics the conditional UPDATE: zero rows affected when the
// row is missing or the quantity is short.
func (r *stubStockRepo) ReserveTx(tx *gorm.DB, productID uuid.UUID, qty int) (int64, error) {
	s, ok := r.stocks[productID]
	if !ok || s.Quantity < qty {
		return 0, nil
	}
	s.Quantity -= qty
	return 1, nil
}

func (r *stubStockRepo) ReleaseTx(tx *gorm.DB, productID uuid.UUID, qty int) error {
	if s, ok := r.stocks[productID]; ok {
		s.Quantity += qty
	}
	return nil
}

func (r *stubStockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	out := make([]model.StockMovement, 0, len(r.movements))
	for _, m := range r.movements {
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) ListLevels(ctx context.Context) ([]model.Stock, error) {
	out := make([]model.Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, nil
}

// ── Sale ──────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// ── Invoice ───────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	// dupNextCreates makes the next N inserts fail with a unique
	// violation, the way a commit-time number collision surfaces.
	dupNextCreates int
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) CreateTx(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	if r.dupNextCreates > 0 {
		r.dupNextCreates--
		return gorm.ErrDuplicatedKey
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) NumberExistsTx(tx *gorm.DB, number string) (bool, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.SaleID == saleID {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	inv, ok := r.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.PDFPath = &path
	return nil
}

func (r *stubInvoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

// ── Purchase ──────────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

func (r *stubPurchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PurchaseID = p.ID
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	for _, p := range r.purchases {
		if p.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPurchaseRepo) DeleteItemsTx(tx *gorm.DB, purchaseID uuid.UUID) error {
	if p, ok := r.purchases[purchaseID]; ok {
		p.Items = nil
	}
	return nil
}

func (r *stubPurchaseRepo) CreateItemsTx(tx *gorm.DB, items []model.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}
	p, ok := r.purchases[items[0].PurchaseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	p.Items = append(p.Items, items...)
	return nil
}

func (r *stubPurchaseRepo) UpdateTotalsTx(tx *gorm.DB, p *model.Purchase) error {
	stored, ok := r.purchases[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.TotalHT = p.TotalHT
	stored.TotalTVA = p.TotalTVA
	stored.TotalTTC = p.TotalTTC
	stored.TotalAmount = p.TotalAmount
	return nil
}

func (r *stubPurchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	out := make([]model.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// ── Supplier ──────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	for _, s := range r.suppliers {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSupplierRepo) List(ctx context.Context, filter dto.SupplierFilter) ([]model.Supplier, int64, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

// ── Caisse ────────────────────────────────────────────────────────────────────

type stubCaisseRepo struct {
	caisses    map[uuid.UUID]*model.Caisse
	operations []model.CaisseOperation
}

var _ repository.CaisseRepository = (*stubCaisseRepo)(nil)

func newStubCaisseRepo() *stubCaisseRepo {
	return &stubCaisseRepo{caisses: make(map[uuid.UUID]*model.Caisse)}
}

func (r *stubCaisseRepo) DB() *gorm.DB { return nil }

func (r *stubCaisseRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caisse) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caisses[c.ID] = c
	return nil
}

func (r *stubCaisseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caisse, error) {
	c, ok := r.caisses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCaisseRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Caisse, error) {
	c, ok := r.caisses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCaisseRepo) UpdateBalanceTx(tx *gorm.DB, id uuid.UUID, balance interface{}) error {
	c, ok := r.caisses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Balance = balance.(decimal.Decimal)
	return nil
}

func (r *stubCaisseRepo) CreateOperationTx(tx *gorm.DB, op *model.CaisseOperation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	r.operations = append(r.operations, *op)
	return nil
}

func (r *stubCaisseRepo) ListOperations(ctx context.Context, caisseID uuid.UUID, filter dto.CaisseOperationFilter) ([]model.CaisseOperation, int64, error) {
	out := make([]model.CaisseOperation, 0, len(r.operations))
	for _, op := range r.operations {
		if op.CaisseID != caisseID {
			continue
		}
		if filter.Kind != "" && op.Kind != filter.Kind {
			continue
		}
		out = append(out, op)
	}
	return out, int64(len(out)), nil
}

func (r *stubCaisseRepo) ListOperationsOrdered(ctx context.Context, caisseID uuid.UUID) ([]model.CaisseOperation, error) {
	out := make([]model.CaisseOperation, 0, len(r.operations))
	for _, op := range r.operations {
		if op.CaisseID == caisseID {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *stubCaisseRepo) List(ctx context.Context) ([]model.Caisse, error) {
	out := make([]model.Caisse, 0, len(r.caisses))
	for _, c := range r.caisses {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ── Factories and seed helpers ────────────────────────────────────────────────

func buildStockSvc() (StockService, *stubStockRepo, *stubProductRepo) {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo()
	return NewStockService(stockRepo, productRepo), stockRepo, productRepo
}

func buildProductSvc() (ProductService, *stubProductRepo, *stubStockRepo) {
	productRepo := newStubProductRepo()
	stockRepo := newStubStockRepo()
	stockSvc := NewStockService(stockRepo, productRepo)
	return NewProductService(productRepo, stockSvc, nil), productRepo, stockRepo
}

func buildCaisseSvc() (CaisseService, *stubCaisseRepo) {
	caisseRepo := newStubCaisseRepo()
	return NewCaisseService(caisseRepo), caisseRepo
}

type saleSvcDeps struct {
	saleRepo    *stubSaleRepo
	invoiceRepo *stubInvoiceRepo
	productRepo *stubProductRepo
	stockRepo   *stubStockRepo
	caisseRepo  *stubCaisseRepo
}

func buildSaleSvc() (SaleService, saleSvcDeps) {
	deps := saleSvcDeps{
		saleRepo:    newStubSaleRepo(),
		invoiceRepo: newStubInvoiceRepo(),
		productRepo: newStubProductRepo(),
		stockRepo:   newStubStockRepo(),
		caisseRepo:  newStubCaisseRepo(),
	}
	stockSvc := NewStockService(deps.stockRepo, deps.productRepo)
	caisseSvc := NewCaisseService(deps.caisseRepo)
	svc := NewSaleService(deps.saleRepo, deps.invoiceRepo, deps.productRepo, stockSvc, caisseSvc, nil)
	return svc, deps
}

type purchaseSvcDeps struct {
	purchaseRepo *stubPurchaseRepo
	supplierRepo *stubSupplierRepo
	productRepo  *stubProductRepo
	stockRepo    *stubStockRepo
	caisseRepo   *stubCaisseRepo
}

func buildPurchaseSvc(tvaRatePct decimal.Decimal) (PurchaseService, purchaseSvcDeps) {
	deps := purchaseSvcDeps{
		purchaseRepo: newStubPurchaseRepo(),
		supplierRepo: newStubSupplierRepo(),
		productRepo:  newStubProductRepo(),
		stockRepo:    newStubStockRepo(),
		caisseRepo:   newStubCaisseRepo(),
	}
	stockSvc := NewStockService(deps.stockRepo, deps.productRepo)
	caisseSvc := NewCaisseService(deps.caisseRepo)
	svc := NewPurchaseService(deps.purchaseRepo, deps.supplierRepo, deps.productRepo, stockSvc, caisseSvc, tvaRatePct)
	return svc, deps
}

// seedProduct inserts an active product with a stock row at the given quantity.
func seedProduct(productRepo *stubProductRepo, stockRepo *stubStockRepo, name, code, unitPrice string, qty int) *model.Product {
	p := &model.Product{
		ID:               uuid.New(),
		Code:             code,
		Name:             name,
		ProductType:      "accessory",
		SellingUnitPrice: dec(unitPrice),
		Active:           true,
	}
	productRepo.products[p.ID] = p
	stockRepo.stocks[p.ID] = &model.Stock{ID: uuid.New(), ProductID: p.ID, Quantity: qty}
	return p
}

// seedCaisse inserts a register with the given opening balance. A nonzero
// opening balance is journaled as the first operation, matching Create.
func seedCaisse(caisseRepo *stubCaisseRepo, name, initialBalance string) *model.Caisse {
	c := &model.Caisse{
		ID:             uuid.New(),
		Name:           name,
		InitialBalance: dec(initialBalance),
		Balance:        dec(initialBalance),
		Active:         true,
	}
	caisseRepo.caisses[c.ID] = c
	if !c.InitialBalance.IsZero() {
		caisseRepo.operations = append(caisseRepo.operations, model.CaisseOperation{
			ID:           uuid.New(),
			CaisseID:     c.ID,
			Kind:         "deposit",
			Amount:       c.InitialBalance,
			BalanceAfter: c.InitialBalance,
			Reason:       "Opening balance",
		})
	}
	return c
}

// seedSupplier inserts an active supplier.
func seedSupplier(supplierRepo *stubSupplierRepo, name, code string, subjectToTax bool) *model.Supplier {
	s := &model.Supplier{
		ID:           uuid.New(),
		Name:         name,
		Code:         code,
		SubjectToTax: subjectToTax,
		Active:       true,
	}
	supplierRepo.suppliers[s.ID] = s
	return s
}
