package ubl

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	dateLayout = "2006-01-02"
)

type xmlAmount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

type xmlQuantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type xmlTaxScheme struct {
	ID string `xml:"cbc:ID"`
}

type xmlPartyTaxScheme struct {
	CompanyID string       `xml:"cbc:CompanyID"`
	TaxScheme xmlTaxScheme `xml:"cac:TaxScheme"`
}

type xmlAddress struct {
	StreetName string `xml:"cbc:StreetName,omitempty"`
}

type xmlParty struct {
	Name struct {
		Name string `xml:"cbc:Name"`
	} `xml:"cac:PartyName"`
	PostalAddress  *xmlAddress        `xml:"cac:PostalAddress,omitempty"`
	PartyTaxScheme *xmlPartyTaxScheme `xml:"cac:PartyTaxScheme,omitempty"`
}

type xmlSupplierParty struct {
	Party xmlParty `xml:"cac:Party"`
}

type xmlPaymentMeans struct {
	PaymentMeansCode      string `xml:"cbc:PaymentMeansCode"`
	PaymentDueDate        string `xml:"cbc:PaymentDueDate,omitempty"`
	PayeeFinancialAccount *struct {
		ID string `xml:"cbc:ID"`
	} `xml:"cac:PayeeFinancialAccount,omitempty"`
}

type xmlTaxCategory struct {
	ID        string       `xml:"cbc:ID"`
	Percent   string       `xml:"cbc:Percent"`
	TaxScheme xmlTaxScheme `xml:"cac:TaxScheme"`
}

type xmlTaxSubtotal struct {
	TaxableAmount xmlAmount      `xml:"cbc:TaxableAmount"`
	TaxAmount     xmlAmount      `xml:"cbc:TaxAmount"`
	TaxCategory   xmlTaxCategory `xml:"cac:TaxCategory"`
}

type xmlTaxTotal struct {
	TaxAmount   xmlAmount        `xml:"cbc:TaxAmount"`
	TaxSubtotal []xmlTaxSubtotal `xml:"cac:TaxSubtotal"`
}

type xmlMonetaryTotal struct {
	LineExtensionAmount xmlAmount `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount  xmlAmount `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount  xmlAmount `xml:"cbc:TaxInclusiveAmount"`
	PayableAmount       xmlAmount `xml:"cbc:PayableAmount"`
}

type xmlItem struct {
	Description           string          `xml:"cbc:Description"`
	ClassifiedTaxCategory *xmlTaxCategory `xml:"cac:ClassifiedTaxCategory,omitempty"`
}

type xmlPrice struct {
	PriceAmount xmlAmount `xml:"cbc:PriceAmount"`
}

type xmlInvoiceLine struct {
	ID                  string      `xml:"cbc:ID"`
	InvoicedQuantity    xmlQuantity `xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount xmlAmount   `xml:"cbc:LineExtensionAmount"`
	Item                xmlItem     `xml:"cac:Item"`
	Price               xmlPrice    `xml:"cac:Price"`
}

type xmlInvoice struct {
	XMLName xml.Name `xml:"Invoice"`
	Xmlns   string   `xml:"xmlns,attr"`
	XmlnsCA string   `xml:"xmlns:cac,attr"`
	XmlnsCB string   `xml:"xmlns:cbc,attr"`

	UBLVersionID         string `xml:"cbc:UBLVersionID"`
	ID                   string `xml:"cbc:ID"`
	UUID                 string `xml:"cbc:UUID,omitempty"`
	IssueDate            string `xml:"cbc:IssueDate"`
	DueDate              string `xml:"cbc:DueDate,omitempty"`
	InvoiceTypeCode      string `xml:"cbc:InvoiceTypeCode"`
	Note                 string `xml:"cbc:Note,omitempty"`
	DocumentCurrencyCode string `xml:"cbc:DocumentCurrencyCode"`

	AccountingSupplierParty xmlSupplierParty `xml:"cac:AccountingSupplierParty"`
	AccountingCustomerParty xmlSupplierParty `xml:"cac:AccountingCustomerParty"`

	PaymentMeans *xmlPaymentMeans `xml:"cac:PaymentMeans,omitempty"`

	TaxTotal           xmlTaxTotal      `xml:"cac:TaxTotal"`
	LegalMonetaryTotal xmlMonetaryTotal `xml:"cac:LegalMonetaryTotal"`
	InvoiceLine        []xmlInvoiceLine `xml:"cac:InvoiceLine"`
}

// MarshalXML renders the document as UBL 2.1 Invoice XML. Every monetary and
// quantity value carries exactly two fractional digits, half-up.
func MarshalXML(doc *Document) ([]byte, error) {
	amount := func(d decimal.Decimal) xmlAmount {
		return xmlAmount{CurrencyID: doc.Currency, Value: FormatAmount(d)}
	}

	inv := xmlInvoice{
		Xmlns:   nsInvoice,
		XmlnsCA: nsCAC,
		XmlnsCB: nsCBC,

		UBLVersionID:         "2.1",
		ID:                   doc.ID,
		UUID:                 doc.UUID,
		IssueDate:            doc.IssueDate.Format(dateLayout),
		InvoiceTypeCode:      "380",
		Note:                 doc.Note,
		DocumentCurrencyCode: doc.Currency,

		AccountingSupplierParty: xmlSupplierParty{Party: partyXML(doc.Supplier)},
		AccountingCustomerParty: xmlSupplierParty{Party: partyXML(doc.Customer)},
	}

	if !doc.DueDate.IsZero() {
		inv.DueDate = doc.DueDate.Format(dateLayout)
	}

	if doc.PaymentMeans != nil {
		pm := &xmlPaymentMeans{PaymentMeansCode: "31"} // credit transfer
		if !doc.PaymentMeans.DueDate.IsZero() {
			pm.PaymentDueDate = doc.PaymentMeans.DueDate.Format(dateLayout)
		}
		if doc.PaymentMeans.IBAN != "" {
			pm.PayeeFinancialAccount = &struct {
				ID string `xml:"cbc:ID"`
			}{ID: doc.PaymentMeans.IBAN}
		}
		inv.PaymentMeans = pm
	}

	inv.TaxTotal = xmlTaxTotal{TaxAmount: amount(doc.TaxTotal.TaxAmount)}
	for _, sub := range doc.TaxTotal.Subtotals {
		inv.TaxTotal.TaxSubtotal = append(inv.TaxTotal.TaxSubtotal, xmlTaxSubtotal{
			TaxableAmount: amount(sub.TaxableAmount),
			TaxAmount:     amount(sub.TaxAmount),
			TaxCategory:   taxCategoryXML(sub.Category),
		})
	}

	inv.LegalMonetaryTotal = xmlMonetaryTotal{
		LineExtensionAmount: amount(doc.LegalMonetaryTotal.LineExtensionAmount),
		TaxExclusiveAmount:  amount(doc.LegalMonetaryTotal.TaxExclusiveAmount),
		TaxInclusiveAmount:  amount(doc.LegalMonetaryTotal.TaxInclusiveAmount),
		PayableAmount:       amount(doc.LegalMonetaryTotal.PayableAmount),
	}

	for _, line := range doc.Lines {
		category := taxCategoryXML(line.TaxCategory)
		inv.InvoiceLine = append(inv.InvoiceLine, xmlInvoiceLine{
			ID: line.ID,
			InvoicedQuantity: xmlQuantity{
				UnitCode: line.UnitCode,
				Value:    FormatAmount(line.Quantity),
			},
			LineExtensionAmount: amount(line.LineExtensionAmount),
			Item: xmlItem{
				Description:           line.Description,
				ClassifiedTaxCategory: &category,
			},
			Price: xmlPrice{PriceAmount: amount(line.UnitPrice)},
		})
	}

	out, err := xml.MarshalIndent(inv, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal UBL invoice: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func partyXML(p Party) xmlParty {
	var out xmlParty
	out.Name.Name = p.Name
	if p.Address != "" {
		out.PostalAddress = &xmlAddress{StreetName: p.Address}
	}
	if p.VATNumber != "" {
		out.PartyTaxScheme = &xmlPartyTaxScheme{
			CompanyID: p.VATNumber,
			TaxScheme: xmlTaxScheme{ID: "VAT"},
		}
	}
	return out
}

func taxCategoryXML(c TaxCategory) xmlTaxCategory {
	return xmlTaxCategory{
		ID:        c.ID,
		Percent:   FormatAmount(c.Percent),
		TaxScheme: xmlTaxScheme{ID: "VAT"},
	}
}
