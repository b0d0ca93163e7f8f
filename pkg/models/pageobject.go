package models

// PageElement is one located UI element declared on a page object.
type PageElement struct {
	Name            string `json:"name"`
	LocatorStrategy string `json:"locator_strategy"`
	LocatorValue    string `json:"locator_value"`
}

// PageObjectClassRecord describes one Selenium-style page object class.
// InheritanceLevel is only meaningful after the inheritance resolver has run
// over the full class set of a scan; until then it reads as zero.
type PageObjectClassRecord struct {
	ClassName           string             `json:"class_name"`
	ParentClassName     string             `json:"parent_class_name,omitempty"`
	Package             string             `json:"package,omitempty"`
	Elements            []PageElement      `json:"elements,omitempty"`
	Methods             []string           `json:"methods,omitempty"`
	Annotations         []SourceAnnotation `json:"annotations,omitempty"`
	InheritanceLevel    int                `json:"inheritance_level"`
	UsesFactoryPattern  bool               `json:"uses_factory_pattern"`
	IsLoadableComponent bool               `json:"is_loadable_component"`
	FilePath            string             `json:"file_path,omitempty"`
	LineNumber          int                `json:"line_number,omitempty"`
}
