package ledger

// View names a read model that must be refreshed after a write touches the
// records it is built from.
type View string

const (
	ViewDeals            View = "deals"
	ViewReceivables      View = "receivables"
	ViewCustomerPayments View = "customer-payments"
	ViewFinancing        View = "financing"
	ViewRepayments       View = "repayments"
	ViewCashBook         View = "cash-book"
	ViewReports          View = "reports"
	ViewMasterData       View = "master-data"
)

// Views touched by each write.
var (
	DealViews          = []View{ViewDeals, ViewReceivables, ViewFinancing, ViewReports}
	DealDeleteViews    = []View{ViewDeals, ViewReceivables, ViewCustomerPayments, ViewFinancing, ViewRepayments, ViewReports}
	DeliveryViews      = []View{ViewDeals, ViewReceivables, ViewCustomerPayments, ViewReports}
	PaymentViews       = []View{ViewDeals, ViewReceivables, ViewCustomerPayments, ViewCashBook, ViewReports}
	PaymentEditViews   = []View{ViewDeals, ViewReceivables, ViewCustomerPayments, ViewReports}
	LoanViews          = []View{ViewDeals, ViewFinancing, ViewRepayments, ViewReports}
	RepaymentViews     = []View{ViewDeals, ViewFinancing, ViewRepayments, ViewCashBook, ViewReports}
	RepaymentEditViews = []View{ViewDeals, ViewFinancing, ViewRepayments, ViewReports}
	MasterDataViews    = []View{ViewMasterData, ViewDeals}
)

// AllViews lists every view, for clients that subscribe to everything.
var AllViews = []View{
	ViewDeals, ViewReceivables, ViewCustomerPayments, ViewFinancing,
	ViewRepayments, ViewCashBook, ViewReports, ViewMasterData,
}
