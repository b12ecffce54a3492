package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry одна позиция прайс-листа в результате поиска
type Entry struct {
	Label string
	Price string
}

// Service услуга с ценой. Цена хранится строкой как есть,
// вместе с валютой и единицами измерения.
type Service struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

// Category категория прайс-листа. Содержит либо список услуг,
// либо вложенные подкатегории (либо и то и другое).
type Category struct {
	Name          string     `yaml:"name"`
	Services      []Service  `yaml:"services"`
	Subcategories []Category `yaml:"subcategories"`
}

// Catalog прайс-лист клиники. Порядок категорий и услуг
// соответствует порядку объявления в файле и не меняется.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// Load читает и валидирует прайс-лист из YAML-файла.
// Каталог загружается один раз при старте и дальше не изменяется.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение прайс-листа: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("разбор прайс-листа: %w", err)
	}

	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("прайс-лист пуст: %s", path)
	}
	if err := validateCategories(c.Categories, "корень"); err != nil {
		return nil, err
	}

	return &c, nil
}

func validateCategories(categories []Category, parent string) error {
	seen := make(map[string]bool)
	for _, cat := range categories {
		if cat.Name == "" {
			return fmt.Errorf("категория без названия внутри %q", parent)
		}
		if seen[cat.Name] {
			return fmt.Errorf("дубликат категории %q внутри %q", cat.Name, parent)
		}
		seen[cat.Name] = true

		names := make(map[string]bool)
		for _, svc := range cat.Services {
			if svc.Name == "" {
				return fmt.Errorf("услуга без названия в категории %q", cat.Name)
			}
			if svc.Price == "" {
				return fmt.Errorf("услуга %q без цены в категории %q", svc.Name, cat.Name)
			}
			if names[svc.Name] {
				return fmt.Errorf("дубликат услуги %q в категории %q", svc.Name, cat.Name)
			}
			names[svc.Name] = true
		}

		if err := validateCategories(cat.Subcategories, cat.Name); err != nil {
			return err
		}
	}
	return nil
}

// Match ищет позиции прайс-листа по тексту запроса.
// Сопоставление строго лексическое: запрос и название приводятся к нижнему
// регистру, совпадением считается вхождение одного в другое. Совпавшая
// категория отдает все свои листья; услуги и подкатегории проверяются
// независимо, поэтому повторные вхождения возможны и не устраняются.
// Пустой результат означает "нет совпадений" и служит сигналом
// для перехода к генеративному ответу.
func (c *Catalog) Match(query string) []Entry {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}

	var out []Entry
	matchCategories(c.Categories, q, &out)
	return out
}

func matchCategories(categories []Category, q string, out *[]Entry) {
	for _, cat := range categories {
		if contains(q, cat.Name) {
			collectLeaves(cat, out)
		}
		for _, svc := range cat.Services {
			if contains(q, svc.Name) {
				*out = append(*out, Entry{Label: svc.Name, Price: svc.Price})
			}
		}
		matchCategories(cat.Subcategories, q, out)
	}
}

// contains проверяет лексическое совпадение запроса с названием:
// либо запрос содержит название, либо название содержит запрос.
func contains(q, name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(q, n) || strings.Contains(n, q)
}

func collectLeaves(cat Category, out *[]Entry) {
	for _, svc := range cat.Services {
		*out = append(*out, Entry{Label: svc.Name, Price: svc.Price})
	}
	for _, sub := range cat.Subcategories {
		collectLeaves(sub, out)
	}
}

// Lines возвращает весь прайс-лист строками вида "услуга: цена".
// Используется как контекст для генеративного ответа.
func (c *Catalog) Lines() []string {
	var lines []string
	for _, cat := range c.Categories {
		var walk func(prefix string, cat Category)
		walk = func(prefix string, cat Category) {
			for _, svc := range cat.Services {
				lines = append(lines, fmt.Sprintf("%s / %s: %s", prefix, svc.Name, svc.Price))
			}
			for _, sub := range cat.Subcategories {
				walk(prefix+" / "+sub.Name, sub)
			}
		}
		walk(cat.Name, cat)
	}
	return lines
}
