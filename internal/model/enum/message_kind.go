package enum

// MessageKind identifies which vault event a chain message was decoded from.
type MessageKind uint8

const (
	_message_kind_beg MessageKind = iota
	MessageBuyOrder
	MessageSellOrder
	MessageAcquisition
	MessageDisposal
	MessageAcquisitionClaim
	MessageDisposalClaim
	_message_kind_end
)

func (k MessageKind) IsAvailable() bool {
	return k > _message_kind_beg && k < _message_kind_end
}

func (k MessageKind) String() string {
	switch k {
	case MessageBuyOrder:
		return "BuyOrder"
	case MessageSellOrder:
		return "SellOrder"
	case MessageAcquisition:
		return "Acquisition"
	case MessageDisposal:
		return "Disposal"
	case MessageAcquisitionClaim:
		return "AcquisitionClaim"
	case MessageDisposalClaim:
		return "DisposalClaim"
	default:
		return "Unknown"
	}
}

// MessageKinds lists every available kind in declaration order.
func MessageKinds() []MessageKind {
	kinds := make([]MessageKind, 0, int(_message_kind_end)-1)
	for k := _message_kind_beg + 1; k < _message_kind_end; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
