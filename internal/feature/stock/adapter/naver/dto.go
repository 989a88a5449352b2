package naver

import "encoding/json"

// priceDirection is the gateway's nested direction object
// (compareToPreviousPrice). Its name field carries RISING / FALLING /
// STEADY and is mapped onto the shared Status enum as-is.
type priceDirection struct {
	Name string `json:"name"`
}

// indexPrice is one element of the index-price-by-name response array.
// pageSize=1 makes element 0 the current quote.
type indexPrice struct {
	ClosePrice                  string         `json:"closePrice"`
	CompareToPreviousClosePrice string         `json:"compareToPreviousClosePrice"`
	FluctuationsRatio           string         `json:"fluctuationsRatio"`
	CompareToPreviousPrice      priceDirection `json:"compareToPreviousPrice"`
}

// dealTrend is one entry of dealTrendInfos; entry 0 is the latest trend
// and serves as the current quote.
type dealTrend struct {
	ClosePrice                  string         `json:"closePrice"`
	CompareToPreviousClosePrice string         `json:"compareToPreviousClosePrice"`
	FluctuationsRatio           string         `json:"fluctuationsRatio"`
	CompareToPreviousPrice      priceDirection `json:"compareToPreviousPrice"`
}

// integrationResponse is the item-detail-by-code response.
type integrationResponse struct {
	StockName      string      `json:"stockName"`
	ItemCode       string      `json:"itemCode"`
	DealTrendInfos []dealTrend `json:"dealTrendInfos"`
}

// chartPoint is one daily candle from the chart endpoint. The gateway has
// shipped both closePrice and close for the closing value, so both are
// accepted.
type chartPoint struct {
	ClosePrice json.Number `json:"closePrice"`
	Close      json.Number `json:"close"`
}

// searchResponse wraps the autocomplete result items.
type searchResponse struct {
	Result struct {
		Items []searchItem `json:"items"`
	} `json:"result"`
}

// searchItem is one autocomplete candidate. TypeName tags the candidate
// kind (stock, index, marketindicator, coin).
type searchItem struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	TypeName string `json:"typeName"`
}
