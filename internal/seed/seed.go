package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository/memory"
)

// Catalog entries grouped by category. Quantities and costs are drawn
// per run; names stay fixed so repeated seeds stay comparable.
var catalog = []struct {
	name     string
	category string
}{
	{"Whole Milk", "Dairy"},
	{"2% Milk", "Dairy"},
	{"Lactose-Free Milk", "Dairy"},
	{"Cheddar Cheese", "Dairy"},
	{"Mozzarella Cheese", "Dairy"},
	{"Yogurt Cups", "Dairy"},
	{"Greek Yogurt", "Dairy"},
	{"Parmesan", "Dairy"},
	{"Butter", "Dairy"},
	{"Cream Cheese", "Dairy"},
	{"Romaine Lettuce", "Produce"},
	{"Baby Spinach", "Produce"},
	{"Tomatoes", "Produce"},
	{"Cucumbers", "Produce"},
	{"Carrots", "Produce"},
	{"Potatoes", "Produce"},
	{"Onions", "Produce"},
	{"Apples", "Produce"},
	{"Bananas", "Produce"},
	{"Oranges", "Produce"},
	{"Ground Beef", "Meat"},
	{"Chicken Breast", "Meat"},
	{"Pork Chops", "Meat"},
	{"Bacon", "Meat"},
	{"Sausage Links", "Meat"},
	{"Ham Slices", "Meat"},
	{"Salmon Fillet", "Meat"},
	{"Tilapia", "Meat"},
	{"Shrimp (Frozen)", "Meat"},
	{"Turkey Ground", "Meat"},
	{"Pasta", "Pantry"},
	{"White Rice", "Pantry"},
	{"Brown Rice", "Pantry"},
	{"All-purpose Flour", "Pantry"},
	{"Sugar", "Pantry"},
	{"Salt", "Pantry"},
	{"Olive Oil", "Pantry"},
	{"Vegetable Oil", "Pantry"},
	{"Canned Beans", "Pantry"},
	{"Peanut Butter", "Pantry"},
	{"Toilet Paper", "Household"},
	{"Paper Towels", "Household"},
	{"Dish Soap", "Household"},
	{"Laundry Detergent", "Household"},
	{"Trash Bags", "Household"},
	{"Bleach", "Household"},
	{"Sponges", "Household"},
	{"Aluminum Foil", "Household"},
	{"Plastic Wrap", "Household"},
	{"Disinfectant Wipes", "Household"},
}

var refrigeratedCategories = map[string]bool{
	"Dairy":   true,
	"Meat":    true,
	"Produce": true,
	"Frozen":  true,
}

var neighborhoods = []string{
	"Downtown", "Greenville", "Hilltop", "Maplewood", "Oakridge",
	"Lakeside", "Brookfield", "Sunnydale", "Fairview", "Westfield",
	"Eastbrook", "Riverside", "Meadowpark", "Highland", "Cedar Grove",
}

var storeBases = []string{"FreshMart", "SuperSaver", "DailyMarket", "UrbanGrocer"}

var firstNames = []string{
	"James", "Maria", "Robert", "Linda", "David", "Susan", "Carlos",
	"Aisha", "Wei", "Elena", "Omar", "Priya", "Jakob", "Nadia",
	"Tomas", "Grace", "Henrik", "Yuki", "Samir", "Clara",
}

var lastNames = []string{
	"Smith", "Garcia", "Johnson", "Chen", "Williams", "Patel",
	"Brown", "Nguyen", "Silva", "Kowalski", "Okafor", "Tanaka",
	"Larsen", "Haddad", "Ivanov", "Moreau", "Costa", "Park",
}

// Salary bands per role, mean monthly pay and headcount.
var roles = []struct {
	role   string
	count  int
	salary float64
}{
	{"driver", 10, 6000},
	{"forklift_operator", 5, 4000},
	{"warehouse_worker", 15, 9000},
	{"admin", 2, 5000},
	{"security", 5, 3000},
	{"cleaning", 5, 7000},
	{"maintenance", 3, 7000},
}

// Dataset is one complete synthetic warehouse fixture.
type Dataset struct {
	Products  []domain.Product
	Stores    []domain.StoreLocation
	Employees []domain.Employee
	Trucks    []domain.Truck
	// InitialStock maps product id to the on-hand quantity pellets
	// should be created for.
	InitialStock map[int64]int
}

// Generate builds a full fixture: catalog, destinations, staff, fleet
// and opening stock. Opening stock never exceeds capacity.
func Generate(rng *rand.Rand, now time.Time, capacity int) *Dataset {
	ds := &Dataset{
		Products:  Products(rng),
		Stores:    Stores(rng, 30),
		Employees: Employees(rng, now),
	}
	ds.Trucks = Trucks(rng, ds.Employees, now)
	ds.InitialStock = initialStock(rng, ds.Products, capacity)
	return ds
}

// Products draws the catalog with randomized costs and weights.
// Supplier ids are reused with high probability so most products
// share a supplier, mirroring a small vendor pool.
func Products(rng *rand.Rand) []domain.Product {
	var supplierIDs []int64
	nextSupplier := int64(1)

	products := make([]domain.Product, 0, len(catalog))
	for i, entry := range catalog {
		var supplierID int64
		if len(supplierIDs) > 0 && rng.Float64() < 0.8 {
			supplierID = supplierIDs[rng.Intn(len(supplierIDs))]
		} else {
			supplierID = nextSupplier
			nextSupplier++
			supplierIDs = append(supplierIDs, supplierID)
		}

		products = append(products, domain.Product{
			ID:           int64(i + 1),
			Name:         entry.name,
			Category:     entry.category,
			UnitCost:     round2(40 + rng.Float64()*160),
			UnitWeight:   round2(20 + rng.Float64()*30),
			Refrigerated: refrigeratedCategories[entry.category],
			SupplierID:   supplierID,
		})
	}
	return products
}

// Stores draws n delivery destinations. Expected travel assumes a
// 60 km/h average, rounded up to the minute.
func Stores(rng *rand.Rand, n int) []domain.StoreLocation {
	stores := make([]domain.StoreLocation, 0, n)
	for i := 0; i < n; i++ {
		distance := round2(5 + rng.Float64()*95)
		minutes := math.Ceil(distance / 60.0 * 60.0)

		stores = append(stores, domain.StoreLocation{
			ID:             int64(i + 1),
			Name:           fmt.Sprintf("%s, %s", storeBases[rng.Intn(len(storeBases))], neighborhoods[rng.Intn(len(neighborhoods))]),
			DistanceKm:     distance,
			ExpectedTravel: time.Duration(minutes) * time.Minute,
			Closing:        20 * time.Hour,
		})
	}
	return stores
}

// Employees draws the staff roster. Salaries are jittered around the
// band mean; first payroll dates are staggered across the month so a
// seed run does not pay everyone on day one.
func Employees(rng *rand.Rand, now time.Time) []domain.Employee {
	var employees []domain.Employee
	id := int64(1)
	for _, band := range roles {
		for i := 0; i < band.count; i++ {
			employees = append(employees, domain.Employee{
				ID:          id,
				Name:        fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))]),
				Role:        band.role,
				Salary:      round2(band.salary + (rng.Float64()*2000 - 1000)),
				AccountNum:  fmt.Sprintf("%012d", rng.Int63n(1_000_000_000_000)),
				NextPayment: now.AddDate(0, 0, 1+rng.Intn(30)),
			})
			id++
		}
	}
	return employees
}

// Trucks assigns one truck per driver. Every fifth truck is
// refrigerated so cold-chain orders always have a candidate.
func Trucks(rng *rand.Rand, employees []domain.Employee, now time.Time) []domain.Truck {
	var trucks []domain.Truck
	id := int64(1)
	for _, e := range employees {
		if e.Role != "driver" {
			continue
		}
		trucks = append(trucks, domain.Truck{
			ID:              id,
			DriverID:        e.ID,
			Capacity:        round2(3000 + rng.Float64()*7000),
			TankCapacity:    round2(150 + rng.Float64()*250),
			Refrigerated:    id%5 == 1,
			Status:          domain.TruckAvailable,
			LastMaintenance: now.AddDate(0, 0, -rng.Intn(180)),
		})
		id++
	}
	return trucks
}

// initialStock fills the pool up to capacity, 100 to 1000 units per
// product until the headroom runs out.
func initialStock(rng *rand.Rand, products []domain.Product, capacity int) map[int64]int {
	stock := make(map[int64]int, len(products))
	remaining := capacity
	for _, p := range products {
		if remaining <= 0 {
			break
		}
		qty := 100 + rng.Intn(901)
		if qty > remaining {
			qty = remaining
		}
		stock[p.ID] = qty
		remaining -= qty
	}
	return stock
}

// Populate loads a fixture into a memory store, creating pellets with
// staggered received dates so the expiry sweep has work to do.
func Populate(ctx context.Context, st *memory.Store, ds *Dataset, rng *rand.Rand, now time.Time) error {
	for _, p := range ds.Products {
		st.AddProduct(p)
	}
	for _, s := range ds.Stores {
		st.AddStoreLocation(s)
	}
	for _, e := range ds.Employees {
		st.AddEmployee(e)
	}
	for _, t := range ds.Trucks {
		st.AddTruck(t)
	}

	total := 0
	for _, p := range ds.Products {
		qty, ok := ds.InitialStock[p.ID]
		if !ok || qty == 0 {
			continue
		}

		pellets := make([]*domain.Pellet, 0, qty)
		for i := 0; i < qty; i++ {
			received := now.AddDate(0, 0, -(1 + rng.Intn(40)))
			pellets = append(pellets, &domain.Pellet{
				ProductID:    p.ID,
				Name:         p.Name,
				Category:     p.Category,
				UnitCost:     p.UnitCost,
				UnitWeight:   p.UnitWeight,
				Received:     received,
				SellBy:       received.AddDate(0, 0, 50),
				Refrigerated: p.Refrigerated,
			})
		}
		if _, err := st.InsertPellets(ctx, pellets); err != nil {
			return fmt.Errorf("seed pellets for product %d: %w", p.ID, err)
		}
		total += qty
	}
	st.SetOnHand(total)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
