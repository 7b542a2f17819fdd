package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"inventory/internal/models"
	"inventory/internal/services"
)

// Inventory is the product store the menu drives. It is satisfied by
// *services.ProductService for direct database access and by *soap.Client
// for a remote SOAP service.
type Inventory interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, update models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

const rule = "=================================================="

var errNotNumber = errors.New("not a number")

// Menu is the interactive inventory console.
type Menu struct {
	inv   Inventory
	in    *bufio.Scanner
	out   io.Writer
	title string
}

// NewMenu creates a Menu reading commands from in and writing to out.
func NewMenu(inv Inventory, in io.Reader, out io.Writer, title string) *Menu {
	return &Menu{
		inv:   inv,
		in:    bufio.NewScanner(in),
		out:   out,
		title: title,
	}
}

// Run shows the menu until the user exits or the input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(m.out, "\n=== %s ===\n", m.title)
		fmt.Fprintln(m.out, "1. Show all products")
		fmt.Fprintln(m.out, "2. Add product")
		fmt.Fprintln(m.out, "3. Update product")
		fmt.Fprintln(m.out, "4. Delete product")
		fmt.Fprintln(m.out, "5. Find product by ID")
		fmt.Fprintln(m.out, "6. Exit")

		choice, err := m.prompt("Choose option (1-6): ")
		if err == nil {
			switch strings.TrimSpace(choice) {
			case "1":
				err = m.showAll(ctx)
			case "2":
				err = m.add(ctx)
			case "3":
				err = m.update(ctx)
			case "4":
				err = m.remove(ctx)
			case "5":
				err = m.find(ctx)
			case "6":
				fmt.Fprintln(m.out, "Goodbye!")
				return nil
			default:
				fmt.Fprintln(m.out, "Invalid option")
			}
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(m.out, "\nGoodbye!")
			return m.in.Err()
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) showAll(ctx context.Context) error {
	products, err := m.inv.GetAllProducts(ctx)
	if err != nil {
		m.result(err, "")
		return nil
	}
	m.table(products)
	return nil
}

func (m *Menu) add(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- ADD PRODUCT ---")
	name, err := m.prompt("Product name: ")
	if err != nil {
		return err
	}
	quantity, err := m.promptInt("Quantity: ")
	if err == nil && quantity == nil {
		err = errNotNumber
	}
	if err != nil {
		return m.numberError(err, "Error: Quantity and price must be numbers")
	}
	price, err := m.promptFloat("Price: ")
	if err == nil && price == nil {
		err = errNotNumber
	}
	if err != nil {
		return m.numberError(err, "Error: Quantity and price must be numbers")
	}

	product, err := m.inv.CreateProduct(ctx, models.ProductInput{Name: name, Quantity: *quantity, Price: *price})
	if err != nil {
		m.result(err, "")
		return nil
	}
	m.result(nil, fmt.Sprintf("Product created with ID: %d", product.ID))
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- UPDATE PRODUCT ---")
	id, err := m.promptID("Product ID to update: ")
	if err != nil {
		return m.numberError(err, "Error: ID must be a number")
	}

	var update models.ProductUpdate
	name, err := m.prompt("New name (leave empty to keep current): ")
	if err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" {
		update.Name = &name
	}
	if update.Quantity, err = m.promptInt("New quantity (leave empty to keep current): "); err != nil {
		return m.numberError(err, "Error: Quantity and price must be numbers")
	}
	if update.Price, err = m.promptFloat("New price (leave empty to keep current): "); err != nil {
		return m.numberError(err, "Error: Quantity and price must be numbers")
	}

	if _, err := m.inv.UpdateProduct(ctx, id, update); err != nil {
		m.result(err, "")
		return nil
	}
	m.result(nil, "Product updated")
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- DELETE PRODUCT ---")
	id, err := m.promptID("Product ID to delete: ")
	if err != nil {
		return m.numberError(err, "Error: ID must be a number")
	}
	if err := m.inv.DeleteProduct(ctx, id); err != nil {
		m.result(err, "")
		return nil
	}
	m.result(nil, "Product deleted")
	return nil
}

func (m *Menu) find(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- FIND PRODUCT ---")
	id, err := m.promptID("Product ID: ")
	if err != nil {
		return m.numberError(err, "Error: ID must be a number")
	}
	product, err := m.inv.GetProductByID(ctx, id)
	if err != nil {
		m.result(err, "")
		return nil
	}
	m.table([]models.Product{*product})
	return nil
}

// prompt reads one line. It returns io.EOF once the input is exhausted.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", io.EOF
	}
	return m.in.Text(), nil
}

// promptInt returns nil for an empty answer.
func (m *Menu) promptInt(label string) (*int, error) {
	s, err := m.prompt(label)
	if err != nil {
		return nil, err
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errNotNumber
	}
	return &v, nil
}

// promptFloat returns nil for an empty answer.
func (m *Menu) promptFloat(label string) (*float64, error) {
	s, err := m.prompt(label)
	if err != nil {
		return nil, err
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errNotNumber
	}
	return &v, nil
}

func (m *Menu) promptID(label string) (uint, error) {
	s, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errNotNumber
	}
	return uint(id), nil
}

// numberError prints msg for a parse failure and hands any other error back.
func (m *Menu) numberError(err error, msg string) error {
	if errors.Is(err, errNotNumber) {
		fmt.Fprintln(m.out, msg)
		return nil
	}
	return err
}

func (m *Menu) result(err error, msg string) {
	if err == nil {
		fmt.Fprintf(m.out, "✓ %s\n", msg)
		return
	}

	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		msg = strings.Join(validationErr.Violations, "; ")
	case services.IsNotFound(err):
		msg = "Product not found"
	case errors.Is(err, services.ErrDuplicateName):
		msg = "Product with this name already exists"
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintf(m.out, "✗ %s\n", msg)
}

func (m *Menu) table(products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products found")
		return
	}

	fmt.Fprintln(m.out, "\n"+rule)
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tQty\tPrice")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", p.ID, p.Name, p.Quantity, p.Price)
	}
	_ = w.Flush()
	fmt.Fprintln(m.out, rule)
}
