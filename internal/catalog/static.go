package catalog

// StaticCatalog is the built-in product list served when both remote tabs
// are unreachable. It lags the live sheet but keeps the order form alive.
func StaticCatalog() []Product {
	return []Product{
		{Code: "TR5", Name: "Tirzepatide - 5mg", KitPriceUSD: 45, VialPriceUSD: 4.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR10", Name: "Tirzepatide - 10mg", KitPriceUSD: 65, VialPriceUSD: 6.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR15", Name: "Tirzepatide - 15mg", KitPriceUSD: 75, VialPriceUSD: 7.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR20", Name: "Tirzepatide - 20mg", KitPriceUSD: 85, VialPriceUSD: 8.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR30", Name: "Tirzepatide - 30mg", KitPriceUSD: 105, VialPriceUSD: 10.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR40", Name: "Tirzepatide - 40mg", KitPriceUSD: 130, VialPriceUSD: 13.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR50", Name: "Tirzepatide - 50mg", KitPriceUSD: 155, VialPriceUSD: 15.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR60", Name: "Tirzepatide - 60mg", KitPriceUSD: 180, VialPriceUSD: 18.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TR100", Name: "Tirzepatide - 100mg", KitPriceUSD: 285, VialPriceUSD: 28.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM2", Name: "Semaglutide - 2mg", KitPriceUSD: 35, VialPriceUSD: 3.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM5", Name: "Semaglutide - 5mg", KitPriceUSD: 45, VialPriceUSD: 4.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM10", Name: "Semaglutide - 10mg", KitPriceUSD: 65, VialPriceUSD: 6.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM15", Name: "Semaglutide - 15mg", KitPriceUSD: 75, VialPriceUSD: 7.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM20", Name: "Semaglutide - 20mg", KitPriceUSD: 85, VialPriceUSD: 8.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SM30", Name: "Semaglutide - 30mg", KitPriceUSD: 105, VialPriceUSD: 10.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "RT5", Name: "Retatrutide - 5mg", KitPriceUSD: 70, VialPriceUSD: 7.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "RT10", Name: "Retatrutide - 10mg", KitPriceUSD: 100, VialPriceUSD: 10.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "RT15", Name: "Retatrutide - 15mg", KitPriceUSD: 125, VialPriceUSD: 12.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "RT20", Name: "Retatrutide - 20mg", KitPriceUSD: 150, VialPriceUSD: 15.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "RT30", Name: "Retatrutide - 30mg", KitPriceUSD: 190, VialPriceUSD: 19.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BT5", Name: "TB-500 - 5mg", KitPriceUSD: 70, VialPriceUSD: 7.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BT10", Name: "TB-500 - 10mg", KitPriceUSD: 130, VialPriceUSD: 13.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BC5", Name: "BPC-157 - 5mg", KitPriceUSD: 40, VialPriceUSD: 4.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BC10", Name: "BPC-157 - 10mg", KitPriceUSD: 60, VialPriceUSD: 6.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BB10", Name: "BPC 5mg + TB500 5mg - 10mg", KitPriceUSD: 90, VialPriceUSD: 9.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "KLOW", Name: "GHK-Cu + TB500 + BPC157 + KPV - 80mg", KitPriceUSD: 195, VialPriceUSD: 19.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "CS10", Name: "Cagrilintide + Semaglutide - 10mg", KitPriceUSD: 125, VialPriceUSD: 12.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "CGL5", Name: "Cagrilintide - 5mg", KitPriceUSD: 80, VialPriceUSD: 8.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "CGL10", Name: "Cagrilintide - 10mg", KitPriceUSD: 130, VialPriceUSD: 13.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "DS5", Name: "DSIP - 5mg", KitPriceUSD: 45, VialPriceUSD: 4.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "DS10", Name: "DSIP - 10mg", KitPriceUSD: 65, VialPriceUSD: 6.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "ET10", Name: "Epithalon - 10mg", KitPriceUSD: 45, VialPriceUSD: 4.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "E3K", Name: "EPO - 3000IU", KitPriceUSD: 100, VialPriceUSD: 20.0, VialsPerKit: 5, Supplier: DefaultSupplier},
		{Code: "CU50", Name: "GHK-CU - 50mg", KitPriceUSD: 35, VialPriceUSD: 3.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "GTT", Name: "Glutathione - 1500mg", KitPriceUSD: 90, VialPriceUSD: 9.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "H10", Name: "HGH 191AA - 10iu", KitPriceUSD: 60, VialPriceUSD: 6.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "H24", Name: "HGH 191AA - 24iu", KitPriceUSD: 105, VialPriceUSD: 10.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "IP10", Name: "Ipamorelin - 10mg", KitPriceUSD: 70, VialPriceUSD: 7.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "ML10", Name: "MT-2 - 10mg", KitPriceUSD: 50, VialPriceUSD: 5.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "MS10", Name: "MOTS-C - 10mg", KitPriceUSD: 60, VialPriceUSD: 6.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "NJ500", Name: "NAD+ - 500mg", KitPriceUSD: 75, VialPriceUSD: 7.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "OT5", Name: "Oxytocin Acetate - 5mg", KitPriceUSD: 50, VialPriceUSD: 5.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "P41", Name: "PT-141 - 10mg", KitPriceUSD: 55, VialPriceUSD: 5.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "SK10", Name: "Selank - 10mg", KitPriceUSD: 60, VialPriceUSD: 6.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "XA10", Name: "Semax - 10mg", KitPriceUSD: 60, VialPriceUSD: 6.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TSM10", Name: "Tesamorelin - 10mg", KitPriceUSD: 135, VialPriceUSD: 13.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "TA5", Name: "Thymosin Alpha-1 - 5mg", KitPriceUSD: 80, VialPriceUSD: 8.0, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "VP10", Name: "VIP - 10mg", KitPriceUSD: 145, VialPriceUSD: 14.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "BA10", Name: "BAC Water - 10ml", KitPriceUSD: 15, VialPriceUSD: 1.5, VialsPerKit: 10, Supplier: DefaultSupplier},
		{Code: "B1210", Name: "B12 (large)", KitPriceUSD: 75, VialPriceUSD: 7.5, VialsPerKit: 10, Supplier: DefaultSupplier},
	}
}
